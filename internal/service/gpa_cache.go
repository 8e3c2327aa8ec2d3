package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// GPALookup is the result of a cache read. Generation must be passed back to
// Set so that a value computed before a grade change is never stored after it.
type GPALookup struct {
	GPA        float64
	Hit        bool
	Generation int64
}

// GPACache memoises computed GPAs between grade changes.
type GPACache interface {
	Get(ctx context.Context, studentID string) (GPALookup, error)
	// Set stores gpa only while the student's generation still equals generation.
	// It reports whether the value was stored.
	Set(ctx context.Context, studentID string, gpa float64, generation int64) (bool, error)
	// Invalidate drops the cached values and bumps each student's generation.
	Invalidate(ctx context.Context, studentIDs ...string) error
}

// minGenerationTTL keeps generation counters alive well past any in-flight read.
const minGenerationTTL = 24 * time.Hour

// setIfGeneration writes KEYS[2] only when KEYS[1] still holds ARGV[1]. A
// missing generation counts as 0.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	current = '0'
end
if current ~= ARGV[1] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ttl)
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

type redisGPACache struct {
	client        *redis.Client
	ttl           time.Duration
	generationTTL time.Duration
}

// NewRedisGPACache stores GPAs under gpa:student:{uid}. A nil client yields a nil cache.
func NewRedisGPACache(client *redis.Client, ttl time.Duration) GPACache {
	if client == nil {
		return nil
	}
	generationTTL := 2 * ttl
	if generationTTL < minGenerationTTL {
		generationTTL = minGenerationTTL
	}
	return &redisGPACache{client: client, ttl: ttl, generationTTL: generationTTL}
}

// Both keys share the {uid} hash tag so the script touches a single cluster slot.
func gpaCacheKey(studentID string) string {
	return fmt.Sprintf("gpa:student:{%s}", studentID)
}

func gpaGenerationKey(studentID string) string {
	return fmt.Sprintf("gpa:student:{%s}:gen", studentID)
}

func (c *redisGPACache) Get(ctx context.Context, studentID string) (GPALookup, error) {
	values, err := c.client.MGet(ctx, gpaCacheKey(studentID), gpaGenerationKey(studentID)).Result()
	if err != nil {
		return GPALookup{}, err
	}

	var lookup GPALookup
	if raw, ok := values[1].(string); ok {
		lookup.Generation, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return GPALookup{}, fmt.Errorf("decode gpa generation: %w", err)
		}
	}

	raw, ok := values[0].(string)
	if !ok {
		return lookup, nil
	}
	lookup.GPA, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return GPALookup{}, fmt.Errorf("decode cached gpa: %w", err)
	}
	lookup.Hit = true
	return lookup, nil
}

func (c *redisGPACache) Set(ctx context.Context, studentID string, gpa float64, generation int64) (bool, error) {
	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{gpaGenerationKey(studentID), gpaCacheKey(studentID)},
		strconv.FormatInt(generation, 10),
		strconv.FormatFloat(gpa, 'f', -1, 64),
		c.ttl.Milliseconds(),
	).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return stored == 1, nil
}

func (c *redisGPACache) Invalidate(ctx context.Context, studentIDs ...string) error {
	if len(studentIDs) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range studentIDs {
			pipe.Del(ctx, gpaCacheKey(id))
			pipe.Incr(ctx, gpaGenerationKey(id))
			pipe.Expire(ctx, gpaGenerationKey(id), c.generationTTL)
		}
		return nil
	})
	return err
}
