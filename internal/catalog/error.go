package catalog

import "errors"

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
)
