// Package testdata provides golden fixtures for the delivery customizer.
// Each fixture is a complete function input (a cart snapshot) with the
// decision the gateway is expected to make, used to validate the policy,
// decision records, and the HTTP host end to end.
package testdata

// Fixture represents a single golden scenario.
type Fixture struct {
	Name            string   // human-readable scenario name
	InputBody       string   // JSON function input posted to the gateway
	AllowedTokens   []string // policy allow-list ("" policy default when empty)
	ExpectedVariant string   // variant the policy should resolve
	ExpectedExempt  bool     // whether an exemption should suppress filtering
	ExpectedHidden  []string // handles hidden, in traversal order
}

// Control returns a cart with no variant assignment. Everything stays
// visible regardless of option titles.
func Control() Fixture {
	return Fixture{
		Name: "control_no_assignment",
		InputBody: `{
			"cart": {
				"lines": [{"id": "line-1", "quantity": 1}],
				"deliveryGroups": [{
					"id": "group-1",
					"deliveryOptions": [
						{"handle": "h1", "title": "Standard Shipping (A)"},
						{"handle": "h2", "title": "Standard Shipping (B)"}
					]
				}]
			}
		}`,
		ExpectedVariant: "",
		ExpectedHidden:  []string{},
	}
}

// EmptyAssignment returns a cart whose variant attribute is present but
// empty — also control behavior.
func EmptyAssignment() Fixture {
	return Fixture{
		Name: "control_empty_assignment",
		InputBody: `{
			"cart": {
				"attributes": {"_ab_shipping_suffix": ""},
				"deliveryGroups": [{
					"deliveryOptions": [
						{"handle": "h1", "title": "Express (C)"},
						{"handle": "h2", "title": "Express (A)"}
					]
				}]
			}
		}`,
		ExpectedVariant: "",
		ExpectedHidden:  []string{},
	}
}

// VariantB returns the standard mixed cart: shopper on B, one option per
// arm plus an untagged pickup option.
func VariantB() Fixture {
	return Fixture{
		Name: "variant_b_mixed_options",
		InputBody: `{
			"cart": {
				"attributes": {"_ab_shipping_suffix": "B"},
				"lines": [{"id": "line-1", "quantity": 2}],
				"deliveryGroups": [{
					"id": "group-1",
					"deliveryOptions": [
						{"handle": "h1", "title": "Standard Shipping (A)"},
						{"handle": "h2", "title": "Standard Shipping (B)"},
						{"handle": "h3", "title": "Pickup"}
					]
				}]
			}
		}`,
		ExpectedVariant: "B",
		ExpectedHidden:  []string{"h1"},
	}
}

// SubscriptionExempt returns a cart with a recurring line. Filtering is
// suppressed even though a variant is assigned.
func SubscriptionExempt() Fixture {
	return Fixture{
		Name: "subscription_exempt",
		InputBody: `{
			"cart": {
				"attributes": {"_ab_shipping_suffix": "A"},
				"lines": [
					{"id": "line-1", "quantity": 1},
					{"id": "line-2", "quantity": 1, "subscription": true}
				],
				"deliveryGroups": [{
					"deliveryOptions": [
						{"handle": "h1", "title": "Standard Shipping (A)"},
						{"handle": "h2", "title": "Standard Shipping (B)"}
					]
				}]
			}
		}`,
		ExpectedVariant: "A",
		ExpectedExempt:  true,
		ExpectedHidden:  []string{},
	}
}

// PlatformSubscription returns a subscription cart in the platform's own
// wire shape: the recurring line carries a nested sellingPlanAllocation
// object rather than a flat flag. Filtering must still be suppressed.
func PlatformSubscription() Fixture {
	return Fixture{
		Name: "subscription_exempt_platform_shape",
		InputBody: `{
			"cart": {
				"attributes": {"_ab_shipping_suffix": "B"},
				"lines": [
					{"id": "line-1", "quantity": 1},
					{"id": "line-2", "quantity": 1, "sellingPlanAllocation": {"sellingPlan": {"id": "gid://shopify/SellingPlan/7"}}}
				],
				"deliveryGroups": [{
					"deliveryOptions": [
						{"handle": "h1", "title": "Standard Shipping (A)"},
						{"handle": "h2", "title": "Standard Shipping (B)"}
					]
				}]
			}
		}`,
		ExpectedVariant: "B",
		ExpectedExempt:  true,
		ExpectedHidden:  []string{},
	}
}

// MultiGroup returns a two-shipment cart to pin directive ordering:
// groups first, then options within each group.
func MultiGroup() Fixture {
	return Fixture{
		Name: "multi_group_ordering",
		InputBody: `{
			"cart": {
				"attributes": {"_ab_shipping_suffix": "A"},
				"deliveryGroups": [
					{
						"id": "group-1",
						"deliveryOptions": [
							{"handle": "g1-b", "title": "Standard (B)"},
							{"handle": "g1-a", "title": "Standard (A)"},
							{"handle": "g1-c", "title": "Standard (C)"}
						]
					},
					{
						"id": "group-2",
						"deliveryOptions": [
							{"handle": "g2-d", "title": "Express (D)"},
							{"handle": "g2-free", "title": "Free Shipping"}
						]
					}
				]
			}
		}`,
		ExpectedVariant: "A",
		ExpectedHidden:  []string{"g1-b", "g1-c", "g2-d"},
	}
}

// AllowListReject returns a cart evaluated under a closed token set.
// "Overnight (E)" carries a structurally valid tag outside the set, so
// it stays visible; only the in-set mismatch is hidden.
func AllowListReject() Fixture {
	return Fixture{
		Name:          "allow_list_rejects_unknown_token",
		AllowedTokens: []string{"A", "B", "C", "D"},
		InputBody: `{
			"cart": {
				"attributes": {"_ab_shipping_suffix": "A"},
				"deliveryGroups": [{
					"deliveryOptions": [
						{"handle": "h1", "title": "Overnight (E)"},
						{"handle": "h2", "title": "Standard Shipping (B)"},
						{"handle": "h3", "title": "Standard Shipping (A)"}
					]
				}]
			}
		}`,
		ExpectedVariant: "A",
		ExpectedHidden:  []string{"h2"},
	}
}

// MalformedTitles returns a cart whose titles all fail extraction one
// way or another. Nothing is hidden.
func MalformedTitles() Fixture {
	return Fixture{
		Name: "malformed_titles_stay_visible",
		InputBody: `{
			"cart": {
				"attributes": {"_ab_shipping_suffix": "A"},
				"deliveryGroups": [{
					"deliveryOptions": [
						{"handle": "h1", "title": "Standard Shipping (AB)"},
						{"handle": "h2", "title": "Free Shipping ()"},
						{"handle": "h3", "title": "(B)"},
						{"handle": "h4", "title": "Standard Shipping (B) extra"}
					]
				}]
			}
		}`,
		ExpectedVariant: "A",
		ExpectedHidden:  []string{},
	}
}

// AllFixtures returns every golden scenario.
func AllFixtures() []Fixture {
	return []Fixture{
		Control(),
		EmptyAssignment(),
		VariantB(),
		SubscriptionExempt(),
		PlatformSubscription(),
		MultiGroup(),
		AllowListReject(),
		MalformedTitles(),
	}
}
