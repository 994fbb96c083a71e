package po

// All every persistence object, in migration order
func All() []any {
	return []any{
		&ProductPO{},
		&ProductImagePO{},
		&CartPO{},
		&CartItemPO{},
		&OrderPO{},
		&OrderItemPO{},
		&OrderStatusChangePO{},
		&OutboxEventPO{},
	}
}
