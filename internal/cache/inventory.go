package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix     = "post:%d"
	FeedFirstPageKey  = "feed:page:1"
	RefreshKeyPrefix  = "refresh:%s"
	ProfileKeyPrefix  = "profile:%s"
	CategoryKeyPrefix = "category:%s"
)

const (
	PostTTL     = 10 * time.Minute
	FeedTTL     = 1 * time.Minute
	ProfileTTL  = 5 * time.Minute
	CategoryTTL = 10 * time.Minute
	RefreshTTL  = 30 * 24 * time.Hour
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func RefreshKey(token string) string {
	return fmt.Sprintf(RefreshKeyPrefix, token)
}

func ProfileKey(username string) string {
	return fmt.Sprintf(ProfileKeyPrefix, username)
}

func CategoryKey(slug string) string {
	return fmt.Sprintf(CategoryKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached detail of a post together with the cached
// first feed page, which may embed it.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, FeedFirstPageKey)
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedFirstPageKey)
}
