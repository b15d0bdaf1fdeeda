package redis

const (
	// KeyPrefixTour is the prefix for tour snapshot keys
	KeyPrefixTour = "wayfare:tour:"
	// KeyPrefixSearch is the prefix for cached search results
	KeyPrefixSearch = "wayfare:search:"
	// KeyAllTours is the key for the set of all snapshotted tour IDs
	KeyAllTours = "wayfare:tours:all"
	// KeyViews is the sorted set of tour IDs scored by view count
	KeyViews = "wayfare:views"
)

// TourKey returns the Redis key for a tour snapshot by ID
func TourKey(id string) string {
	return KeyPrefixTour + id
}

// SearchKey returns the Redis key for a cached search
func SearchKey(query string) string {
	return KeyPrefixSearch + query
}

// AllToursKey returns the key for the set of all tour IDs
func AllToursKey() string {
	return KeyAllTours
}

// ViewsKey returns the key of the popularity ranking
func ViewsKey() string {
	return KeyViews
}
