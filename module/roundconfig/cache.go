package roundconfig

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

// CachingParser memoizes parsed descriptions. The path finder re-sends the same
// description for every batch of pairs of a round, so most parses hit the cache.
// Cached configurations are copied on the way out because callers attach pair lists.
type CachingParser struct {
	parser Parser
	cache  *lru.Cache[string, dca.RoundConfiguration]
}

var _ Parser = (*CachingParser)(nil)

func NewCachingParser(parser Parser, size int) (*CachingParser, error) {
	cache, err := lru.New[string, dca.RoundConfiguration](size)
	if err != nil {
		return nil, fmt.Errorf("could not create description cache: %w", err)
	}
	return &CachingParser{parser: parser, cache: cache}, nil
}

func (c *CachingParser) Parse(description string) (*dca.RoundConfiguration, error) {
	if cfg, ok := c.cache.Get(description); ok {
		return &cfg, nil
	}
	cfg, err := c.parser.Parse(description)
	if err != nil {
		return nil, err
	}
	c.cache.Add(description, *cfg)
	copied := *cfg
	return &copied, nil
}
