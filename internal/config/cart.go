package config

import "time"

// CartConfig controls the Redis-backed guest cart store.  Carts are
// keyed by a client-generated guest ID and expire after TTL of
// inactivity; every mutation refreshes the timer.
type CartConfig struct {
    Prefix string
    TTL    time.Duration
}

// LoadCartConfig reads environment variables to build a CartConfig.
func LoadCartConfig() CartConfig {
    return CartConfig{
        Prefix: getenv("CART_PREFIX", "cart"),
        TTL:    parseDur(getenv("CART_TTL", "168h")),
    }
}
