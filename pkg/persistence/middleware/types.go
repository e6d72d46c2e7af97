package middleware

import "github.com/AndreyBuyanov/ExpertSystem/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore
