package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/ids"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// LoadBoard reads the board from kv. The returned board is always usable:
// when nothing is stored, or the stored blob cannot be read, parsed or
// validated, it is a fresh default board. In the latter cases the error
// says why the stored board was not used; a missing blob is not an error.
func LoadBoard(ctx context.Context, kv KV, gen ids.Generator) (model.Board, error) {
	if gen == nil {
		gen = ids.UUID{}
	}
	fallback := func() model.Board { return model.DefaultBoard(gen.NewID) }

	data, err := kv.Get(ctx, BoardKey)
	if errors.Is(err, ErrNotFound) {
		return fallback(), nil
	}
	if err != nil {
		return fallback(), fmt.Errorf("load board: %w", err)
	}

	b, err := DecodeBoard(data)
	if err != nil {
		return fallback(), fmt.Errorf("load board: %w", err)
	}
	return b, nil
}

// SaveBoard writes the full board under BoardKey.
func SaveBoard(ctx context.Context, kv KV, b model.Board) error {
	data, err := EncodeBoard(b)
	if err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	if err := kv.Set(ctx, BoardKey, data); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}
