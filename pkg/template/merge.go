// merge.go: Merge user catalog entries onto a base catalog.
package template

// Merge returns a new catalog containing base's templates followed by any
// new ids from extra. A template in extra whose id already exists in base
// replaces that entry at its original position.
func Merge(base *Catalog, extra []Template) *Catalog {
	all := base.List()
	all = append(all, extra...)
	return NewCatalog(all...)
}
