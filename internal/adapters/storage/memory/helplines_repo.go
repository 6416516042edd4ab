package memory

import (
	"context"
	"sort"

	"streetpaws/internal/domain/helplines"
)

type helplineRepo struct {
	st *state
}

func (r *helplineRepo) Create(ctx context.Context, h helplines.Helpline) (helplines.Helpline, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	h.ID = r.st.helplineSeq.Add(1)
	r.st.helplines[h.ID] = h
	return h, nil
}

func (r *helplineRepo) List(ctx context.Context) ([]helplines.Helpline, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	out := make([]helplines.Helpline, 0, len(r.st.helplines))
	for _, h := range r.st.helplines {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *helplineRepo) Count(ctx context.Context) (int, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return len(r.st.helplines), nil
}
