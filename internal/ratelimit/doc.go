// Package ratelimit throttles repeated review submissions per QR identifier.
//
// Two implementations share the same fixed-window contract: MemoryLimiter keeps
// windows in process memory and RedisLimiter keeps them in Redis so that several
// API instances draw from one budget. In both, a denied attempt never consumes
// a slot and unknown keys are treated as not limited yet.
package ratelimit
