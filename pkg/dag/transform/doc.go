// Package transform prepares module dependency graphs for export.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes edges that are implied by longer paths. If
// sale_stock depends on sale and stock, and sale already depends on product,
// a direct sale_stock → product declaration adds nothing to the install
// order and only clutters the picture.
//
// # Layer Assignment
//
// [AssignLayers] places every module one row below its deepest dependent, so
// exporters can rank modules by depth.
//
// [Normalize] applies both in the correct order.
package transform
