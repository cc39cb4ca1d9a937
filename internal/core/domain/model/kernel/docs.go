// Package kernel provides the value objects shared by the meal-order domain.
//
// The package includes:
//   - UUID: identifiers for orders, positions, restaurants, actors and version tokens
//   - Money: non-negative monetary amounts with two decimal places
//
// Both types are immutable. Their zero values are invalid and are rejected by
// Validate, so a forgotten constructor call surfaces as an error instead of a
// silently empty identifier or amount.
package kernel
