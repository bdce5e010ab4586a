// Package cart defines the checkout snapshot the variant filter operates
// on: cart attributes, line items, and the delivery options resolved
// upstream by shipping-rate calculation. All types are plain values; the
// filter never mutates a snapshot.
package cart

// Cart is one shopper's checkout state at evaluation time.
type Cart struct {
	Attributes     map[string]string `json:"attributes,omitempty"`
	Lines          []Line            `json:"lines,omitempty"`
	DeliveryGroups []DeliveryGroup   `json:"deliveryGroups,omitempty"`
}

// Line is a single cart line. A line is a recurring purchase when it
// carries a selling-plan allocation — the platform sends that as a
// nested object; hand-built carts may set the flat Subscription flag
// instead. Recurring reports either form.
type Line struct {
	ID                    string                 `json:"id,omitempty"`
	Quantity              int                    `json:"quantity,omitempty"`
	Subscription          bool                   `json:"subscription,omitempty"`
	SellingPlanAllocation *SellingPlanAllocation `json:"sellingPlanAllocation,omitempty"`
}

// SellingPlanAllocation marks a line as sold under a selling plan. Only
// its presence matters to the filter; the plan reference is carried for
// audit records.
type SellingPlanAllocation struct {
	SellingPlan SellingPlan `json:"sellingPlan,omitempty"`
}

// SellingPlan identifies the recurring-purchase plan on an allocation.
type SellingPlan struct {
	ID string `json:"id,omitempty"`
}

// Recurring reports whether the line is a subscription purchase.
func (l Line) Recurring() bool {
	return l.Subscription || l.SellingPlanAllocation != nil
}

// DeliveryGroup is one shipment's set of delivery options, in the order
// the rate resolver produced them.
type DeliveryGroup struct {
	ID              string           `json:"id,omitempty"`
	DeliveryOptions []DeliveryOption `json:"deliveryOptions,omitempty"`
}

// DeliveryOption is a shipping method choice. Title is the human-authored
// display text; Handle is the stable identifier echoed back in hide
// operations and never parsed.
type DeliveryOption struct {
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

// Attribute returns the value of a named cart attribute, or "" if the
// attribute is absent.
func (c Cart) Attribute(key string) string {
	return c.Attributes[key]
}

// HasSubscription reports whether any line is a recurring purchase.
func (c Cart) HasSubscription() bool {
	for _, l := range c.Lines {
		if l.Recurring() {
			return true
		}
	}
	return false
}
