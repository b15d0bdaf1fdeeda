package widget

// Script is a loader script tag. OnError is called by the document if the
// script fails to load; it may be nil.
type Script struct {
	Src     string
	Async   bool
	OnError func(err error)
}

// InitFunc is a vendor's global initialization entry point.
type InitFunc func(cfg Config) error

// Document is the page the coordinator injects scripts into.
type Document interface {
	// HasScript reports whether a script whose src contains pattern exists.
	HasScript(pattern string) bool
	// AppendScript adds a script tag. It must not block on loading.
	AppendScript(s Script)
	// Entrypoint returns the vendor's init function once the vendor script
	// has defined it.
	Entrypoint(vendorID string) (InitFunc, bool)
}

// Element is a node created inside a widget container.
type Element struct {
	Tag   string
	Attrs map[string]string
}

// Container is the mount point of one widget instance.
type Container interface {
	HasChild(tag, attr, value string) bool
	AppendChild(el Element)
	// RemoveChild removes the elements with the given tag whose attr equals value.
	RemoveChild(tag, attr, value string)
	ReplaceChildren(els ...Element)
	SetAttributes(attrs map[string]string)
}
