package redis

import (
	"fmt"

	"github.com/mcoot/btcguesser/internal/model"
)

// Key prefix for all guesser data
const keyPrefix = "btcguess"

// playerKey returns the Redis key for a PlayerRecord
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}
