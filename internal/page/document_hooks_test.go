package page

import "github.com/MrSnakeDoc/wayfare/internal/widget"

// define installs a vendor entry point, as the vendor script does once loaded.
func (d *Document) define(vendorID string, fn widget.InitFunc) {
	d.mu.Lock()
	d.entries[vendorID] = fn
	d.mu.Unlock()
}

// failScript makes scripts whose src contains pattern fail to load.
func (d *Document) failScript(pattern string, err error) {
	d.mu.Lock()
	d.failing[pattern] = err
	d.mu.Unlock()
}
