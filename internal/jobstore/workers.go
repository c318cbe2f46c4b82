package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"conductor/internal/services"
)

// Heartbeat writes the worker's liveness record with a TTL of three
// heartbeat intervals, then consumes and returns any pending mailbox
// command. CommandContinue means the mailbox was empty.
func (s *Store) Heartbeat(ctx context.Context, record *WorkerRecord, interval time.Duration) (Command, error) {
	if record == nil || strings.TrimSpace(record.Hostname) == "" {
		return CommandContinue, errors.New("worker record requires a hostname")
	}
	if record.Timestamp == 0 {
		record.Timestamp = time.Now().Unix()
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return CommandContinue, fmt.Errorf("marshal worker record: %w", err)
	}
	ttl := 3 * interval
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	if err := s.client.Set(ctx, workerKey(record.Hostname), encoded, ttl).Err(); err != nil {
		return CommandContinue, services.Wrap(services.ErrUnavailable, "jobstore", "heartbeat", "write worker record", err)
	}
	if err := s.client.Set(ctx, systemWorkerStatusKey, record.Status, ttl).Err(); err != nil {
		return CommandContinue, services.Wrap(services.ErrUnavailable, "jobstore", "heartbeat", "write worker status", err)
	}

	// GETDEL claims the command atomically; a lost race simply means another
	// heartbeat from the same worker already took it.
	raw, err := s.client.GetDel(ctx, commandKey(record.Hostname)).Result()
	if errors.Is(err, redis.Nil) {
		return CommandContinue, nil
	}
	if err != nil {
		return CommandContinue, services.Wrap(services.ErrUnavailable, "jobstore", "heartbeat", "read command mailbox", err)
	}
	cmd, ok := ParseCommand(raw)
	if !ok {
		return CommandContinue, nil
	}
	return cmd, nil
}

// SendCommand places a command in one live worker's mailbox and returns the
// chosen hostname. When hostname is empty the lexically first registered
// worker is targeted; multi-worker fan-out is deliberately out of scope.
// Returns ErrNotFound when no worker is live.
func (s *Store) SendCommand(ctx context.Context, hostname string, cmd Command) (string, error) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		workers, err := s.ListWorkers(ctx)
		if err != nil {
			return "", err
		}
		if len(workers) == 0 {
			return "", services.Wrap(services.ErrNotFound, "jobstore", "command", "no active workers", nil)
		}
		hostname = workers[0].Hostname
	}
	if err := s.client.Set(ctx, commandKey(hostname), string(cmd), s.commandTTL).Err(); err != nil {
		return "", services.Wrap(services.ErrUnavailable, "jobstore", "command", "write mailbox", err)
	}
	return hostname, nil
}

// ListWorkers returns all live worker records sorted by hostname. Workers
// whose records expired are simply absent.
func (s *Store) ListWorkers(ctx context.Context) ([]*WorkerRecord, error) {
	var workers []*WorkerRecord
	iter := s.client.Scan(ctx, 0, workerKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasSuffix(key, commandSuffix) {
			continue
		}
		raw, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, services.Wrap(services.ErrUnavailable, "jobstore", "workers", "read worker record", err)
		}
		var record WorkerRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			continue
		}
		workers = append(workers, &record)
	}
	if err := iter.Err(); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "jobstore", "workers", "scan worker keys", err)
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i].Hostname < workers[j].Hostname })
	return workers, nil
}
