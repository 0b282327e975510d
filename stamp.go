package ots

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// nonceSize is the length of the random value prepended before hashing,
// hiding the file digest from the calendar server it is submitted to.
const nonceSize = 16

// StampResult reports which calendar servers contributed to the assembled
// proof.
type StampResult struct {
	Succeeded []string
	Failed    map[string]error
}

// StampOptions supplies the collaborators and input Stamp needs. Exactly
// one of Data or Digest should be set.
type StampOptions struct {
	Data   []byte
	Digest []byte // precomputed SHA-256 digest, alternative to Data

	Oracle   HashOracle
	Random   RandomSource
	Calendar CalendarServer
	Servers  []string // defaults to Config.CalendarServers if nil
	Config   Config
	Logger   *zap.Logger
}

// Stamp hashes data (or trusts the supplied digest), submits a nonce-
// blinded digest to every configured calendar server, and assembles a
// well-formed OtsFile containing each server's response as a parallel
// branch of a single leaf node.
func Stamp(ctx context.Context, opts StampOptions) (*OtsFile, *StampResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config
	if cfg.MaxDepth == 0 {
		cfg = DefaultConfig()
	}
	oracle := opts.Oracle
	if oracle == nil {
		oracle = DefaultHashOracle{}
	}
	random := opts.Random
	if random == nil {
		random = DefaultRandomSource{}
	}
	if opts.Calendar == nil {
		return nil, nil, fmt.Errorf("ots: stamp requires a CalendarServer collaborator")
	}
	servers := opts.Servers
	if servers == nil {
		servers = cfg.CalendarServers
	}
	if len(servers) == 0 {
		return nil, nil, fmt.Errorf("ots: no calendar servers configured")
	}

	digest := opts.Digest
	if digest == nil {
		d, err := oracle.Digest(ctx, Sha256, opts.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("ots: hashing input data: %w", err)
		}
		digest = d
	}

	nonce, err := random.RandomBytes(nonceSize)
	if err != nil {
		return nil, nil, fmt.Errorf("ots: generating nonce: %w", err)
	}

	calendarDigest, err := oracle.Digest(ctx, Sha256, append(append([]byte{}, nonce...), digest...))
	if err != nil {
		return nil, nil, fmt.Errorf("ots: hashing calendar digest: %w", err)
	}

	bodies := make([][]byte, len(servers))
	errs := make([]error, len(servers))

	var wg sync.WaitGroup
	for i, server := range servers {
		wg.Add(1)
		go func(i int, server string) {
			defer wg.Done()
			body, err := opts.Calendar.Submit(ctx, server, calendarDigest)
			if err != nil {
				logger.Warn("calendar submit failed", zap.String("server", server), zap.Error(err))
				errs[i] = err
				return
			}
			if len(body) == 0 {
				errs[i] = fmt.Errorf("empty response body")
				logger.Warn("calendar submit failed", zap.String("server", server), zap.Error(errs[i]))
				return
			}
			if len(body) > cfg.MaxCalendarResponseBytes {
				errs[i] = fmt.Errorf("response body exceeds %d bytes", cfg.MaxCalendarResponseBytes)
				logger.Warn("calendar submit failed", zap.String("server", server), zap.Error(errs[i]))
				return
			}
			bodies[i] = body
		}(i, server)
	}
	wg.Wait()

	result := &StampResult{Failed: make(map[string]error)}
	leaf := NewTimestamp()
	for i, server := range servers {
		if errs[i] != nil {
			result.Failed[server] = errs[i]
			continue
		}
		sub, perr := ParseTimestampWithConfig(bodies[i], cfg)
		if perr != nil {
			result.Failed[server] = perr
			continue
		}
		leaf.Attestations = append(leaf.Attestations, sub.Attestations...)
		leaf.Ops = append(leaf.Ops, sub.Ops...)
		result.Succeeded = append(result.Succeeded, server)
	}

	if len(result.Succeeded) == 0 {
		logger.Error("stamp failed: no calendar server responded", zap.Int("servers", len(servers)))
		return nil, nil, &NoCalendarResponseError{ServerErrors: result.Failed}
	}
	logger.Info("stamp succeeded",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))

	hashNode := NewTimestamp()
	hashNode.AddContinuation(NewHashOp(Sha256), leaf)

	root := NewTimestamp()
	root.AddContinuation(NewPrepend(nonce), hashNode)

	f := &OtsFile{HashOp: Sha256, FileDigest: digest, Timestamp: root}
	return f, result, nil
}
