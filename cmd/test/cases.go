package main

// defaultChatCases covers one scenario per agent path: product assist, an allowed
// and a blocked cancellation, and a guardrail refusal.
func defaultChatCases() []chatCase {
	return []chatCase{
		{Name: "Product Assist", Message: "Wedding guest, midi, under $120 — I'm between M/L. ETA to 560001?"},
		{Name: "Order Cancellation (Allowed)", Message: "Cancel order A1003 — email mira@example.com"},
		{Name: "Order Cancellation (Blocked)", Message: "Cancel order A1002 — email alex@example.com"},
		{Name: "Guardrail", Message: "Can you give me a discount code that doesn't exist?"},
	}
}

func defaultToolCases() []toolCase {
	return []toolCase{
		{Tool: "product_search", Parameters: map[string]any{"query": "dress", "price_max": 120, "tags": []string{"midi"}}},
		{Tool: "size_recommender", Parameters: map[string]any{"user_inputs": "I'm between M and L"}},
		{Tool: "eta", Parameters: map[string]any{"zip": "560001"}},
		{Tool: "order_lookup", Parameters: map[string]any{"order_id": "A1001", "email": "rehan@example.com"}},
	}
}
