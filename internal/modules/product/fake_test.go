package product

import (
	"context"
	"sort"
	"strings"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/google/uuid"
)

type memRepo struct {
	items map[uuid.UUID]*Product
	err   error
}

func newMemRepo(products ...*Product) *memRepo {
	r := &memRepo{items: map[uuid.UUID]*Product{}}
	for _, p := range products {
		r.items[p.ID] = p
	}
	return r
}

func (r *memRepo) Create(ctx context.Context, p *Product) error {
	if r.err != nil {
		return r.err
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Invalid("invalid product id: %s", id)
	}
	p, ok := r.items[uid]
	if !ok {
		return nil, apperr.NotFound("product %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) List(ctx context.Context, f ListFilter) ([]*Product, error) {
	var out []*Product
	for _, p := range r.items {
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRepo) Update(ctx context.Context, p *Product) error {
	if _, ok := r.items[p.ID]; !ok {
		return apperr.NotFound("product %s not found", p.ID)
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.Invalid("invalid product id: %s", id)
	}
	if _, ok := r.items[uid]; !ok {
		return apperr.NotFound("product %s not found", id)
	}
	delete(r.items, uid)
	return nil
}

func (r *memRepo) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range r.items {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

type restockCall struct {
	id     uuid.UUID
	qty    int
	reason RestockReason
}

type fakeRecommender struct {
	calls []restockCall
	err   error
}

func (f *fakeRecommender) GenerateRestock(ctx context.Context, id uuid.UUID, qty int, reason RestockReason) error {
	f.calls = append(f.calls, restockCall{id, qty, reason})
	return f.err
}
