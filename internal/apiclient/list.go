package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// getList fetches a JSON array. A 2xx body that is not an array is treated as
// an empty list.
func getList[T any](ctx context.Context, s *Session, r request) ([]T, error) {
	resp, err := s.do(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: r.op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return []T{}, nil
	}

	items := []T{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal list: %w", r.op, err)
	}
	return items, nil
}
