// Package billing provides the bill aggregate issued for an approved
// consumption record.
//
// This package implements the billing bounded context, which is responsible for:
//   - Linking exactly one bill to a consumption record
//   - Keeping the slab breakdown the total was computed from
//   - Moving the payment status from Unpaid to Paid or Overdue
//
// Key Aggregates:
//   - Bill: Customer, billing period, tariff plan, total and breakdown
//
// Value Objects:
//   - BreakdownLine: One slab contribution (range label, units, rate, amount)
//   - PaymentStatus: Unpaid, Paid or Overdue
//
// The billing domain integrates with:
//   - Consumption domain: The approved record being billed
//   - Tariff domain: The plan and calculation the breakdown comes from
package billing
