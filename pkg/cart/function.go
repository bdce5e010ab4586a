package cart

// FunctionInput is the wire form of a customization request: the checkout
// platform sends the materialized cart snapshot as JSON.
type FunctionInput struct {
	Cart Cart `json:"cart"`
}

// FunctionResult is the wire form of the decision: an ordered list of
// operations for the platform to apply to the delivery option set. An
// empty list means "show everything as computed upstream".
type FunctionResult struct {
	Operations []Operation `json:"operations"`
}

// Operation wraps a single customization. Only hide is produced today;
// the envelope matches the platform schema, which also carries move and
// rename slots.
type Operation struct {
	Hide *HideOperation `json:"hide,omitempty"`
}

// HideOperation removes one delivery option from the shopper-visible set.
type HideOperation struct {
	DeliveryOptionHandle string `json:"deliveryOptionHandle"`
}

// HideResult builds a FunctionResult that hides the given option handles,
// preserving order. Operations is always non-nil so the result serializes
// as an empty array rather than null.
func HideResult(handles []string) FunctionResult {
	ops := make([]Operation, 0, len(handles))
	for _, h := range handles {
		ops = append(ops, Operation{Hide: &HideOperation{DeliveryOptionHandle: h}})
	}
	return FunctionResult{Operations: ops}
}
