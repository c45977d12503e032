package redis

import "fmt"

const (
	// KeyPrefixUsage is the prefix for per-group usage hashes
	KeyPrefixUsage = "topdoor:usage:"
	// KeyAllUsage is the key for the set of all group IDs with usage
	KeyAllUsage = "topdoor:usage:all"

	fieldCount        = "count"
	fieldLastLaunched = "last_launched"
)

// UsageKey returns the Redis key for a group's usage hash
func UsageKey(id string) string {
	return KeyPrefixUsage + id
}

// AllUsageKey returns the key for the set of all group IDs
func AllUsageKey() string {
	return KeyAllUsage
}

// ExtractGroupID extracts the group ID from a usage key
func ExtractGroupID(key string) (string, error) {
	if len(key) <= len(KeyPrefixUsage) || key[:len(KeyPrefixUsage)] != KeyPrefixUsage {
		return "", fmt.Errorf("invalid usage key: %s", key)
	}
	return key[len(KeyPrefixUsage):], nil
}
