package allocation

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/domain/stock"
)

// In-memory repositories store values, so a failed Save leaves the stored
// state untouched the way a rolled back transaction would.

func nextID[T any](m map[int64]T) int64 {
	var maxID int64
	for id := range m {
		maxID = max(maxID, id)
	}
	return maxID + 1
}

func sortedIDs[T any](m map[int64]T, desc bool) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	if desc {
		slices.Reverse(ids)
	}
	return ids
}

func matchesStatus(filter shared.Filter, status string) bool {
	want := filter.String(plan.FilterStatus)
	switch {
	case want == "":
		return true
	case want == plan.StatusFilterRedirected:
		return plan.StoreRequestStatus(status).IsRedirected()
	default:
		return want == status
	}
}

func matchesNeedID(filter shared.Filter, needID int64) bool {
	v, ok := filter.Filters[plan.FilterNeedID].(int64)
	return !ok || v == needID
}

type memStockRepo struct {
	mu      sync.Mutex
	items   map[int64]stock.StockItem
	saveErr error
	// failNext is returned by the next saves, one error per call
	failNext []error
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{items: make(map[int64]stock.StockItem)}
}

func (r *memStockRepo) FindByID(_ context.Context, id int64) (*stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *memStockRepo) FindByCategoryAndName(_ context.Context, category, name string) (*stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range sortedIDs(r.items, false) {
		item := r.items[id]
		if item.Category == category && item.Name == name {
			return &item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memStockRepo) FindAll(_ context.Context, filter shared.Filter) ([]stock.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.StockItem
	for _, id := range sortedIDs(r.items, filter.Descending()) {
		item := r.items[id]
		if c := filter.String(stock.FilterCategory); c != "" && item.Category != c {
			continue
		}
		if !item.Matches(filter.Search) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *memStockRepo) NextID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return nextID(r.items), nil
}

func (r *memStockRepo) Save(_ context.Context, item *stock.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return shared.NewPersistenceError("save stock item", r.saveErr)
	}
	if len(r.failNext) > 0 {
		err := r.failNext[0]
		r.failNext = r.failNext[1:]
		return err
	}
	cp := *item
	cp.ClearDomainEvents()
	r.items[item.ID] = cp
	return nil
}

func (r *memStockRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memPlanRepo struct {
	mu   sync.Mutex
	plan *plan.Plan
}

func (r *memPlanRepo) Get(context.Context) (*plan.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plan == nil {
		r.plan = plan.NewPlan(time.Now())
	}
	p := *r.plan
	return &p, nil
}

func (r *memPlanRepo) Save(_ context.Context, p *plan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	cp.ClearDomainEvents()
	r.plan = &cp
	return nil
}

type memNeedRepo struct {
	mu    sync.Mutex
	needs map[int64]plan.NeedEntry
}

func newMemNeedRepo() *memNeedRepo {
	return &memNeedRepo{needs: make(map[int64]plan.NeedEntry)}
}

func (r *memNeedRepo) FindByID(_ context.Context, id int64) (*plan.NeedEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.needs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &n, nil
}

func (r *memNeedRepo) FindByDepartmentAndID(ctx context.Context, department string, id int64) (*plan.NeedEntry, error) {
	n, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Department != department {
		return nil, shared.ErrNotFound
	}
	return n, nil
}

func (r *memNeedRepo) FindAll(_ context.Context, filter shared.Filter) ([]plan.NeedEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []plan.NeedEntry
	for _, id := range sortedIDs(r.needs, filter.Descending()) {
		n := r.needs[id]
		if d := filter.String(plan.FilterDepartment); d != "" && n.Department != d {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(n.ItemName), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *memNeedRepo) NextID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return nextID(r.needs), nil
}

func (r *memNeedRepo) Save(_ context.Context, n *plan.NeedEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	cp.ClearDomainEvents()
	r.needs[n.ID] = cp
	return nil
}

func (r *memNeedRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.needs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.needs, id)
	return nil
}

type memOverflowRepo struct {
	mu   sync.Mutex
	reqs map[int64]plan.OverflowRequest
}

func newMemOverflowRepo() *memOverflowRepo {
	return &memOverflowRepo{reqs: make(map[int64]plan.OverflowRequest)}
}

func (r *memOverflowRepo) FindByID(_ context.Context, id int64) (*plan.OverflowRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &req, nil
}

func (r *memOverflowRepo) FindAll(_ context.Context, filter shared.Filter) ([]plan.OverflowRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []plan.OverflowRequest
	for _, id := range sortedIDs(r.reqs, filter.Descending()) {
		req := r.reqs[id]
		if d := filter.String(plan.FilterDepartment); d != "" && req.Department != d {
			continue
		}
		if !matchesStatus(filter, string(req.Status)) || !matchesNeedID(filter, req.NeedID) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *memOverflowRepo) CountPendingByNeed(_ context.Context, needID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, req := range r.reqs {
		if req.NeedID == needID && req.IsPending() {
			n++
		}
	}
	return n, nil
}

func (r *memOverflowRepo) NextID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return nextID(r.reqs), nil
}

func (r *memOverflowRepo) Save(_ context.Context, req *plan.OverflowRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	cp.ClearDomainEvents()
	r.reqs[req.ID] = cp
	return nil
}

type memStoreRequestRepo struct {
	mu   sync.Mutex
	reqs map[int64]plan.StoreRequest
}

func newMemStoreRequestRepo() *memStoreRequestRepo {
	return &memStoreRequestRepo{reqs: make(map[int64]plan.StoreRequest)}
}

func (r *memStoreRequestRepo) FindByID(_ context.Context, id int64) (*plan.StoreRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &req, nil
}

func (r *memStoreRequestRepo) FindAll(_ context.Context, filter shared.Filter) ([]plan.StoreRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []plan.StoreRequest
	for _, id := range sortedIDs(r.reqs, filter.Descending()) {
		req := r.reqs[id]
		if d := filter.String(plan.FilterDepartment); d != "" && req.Department != d {
			continue
		}
		if !matchesStatus(filter, string(req.Status)) || !matchesNeedID(filter, req.NeedID) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *memStoreRequestRepo) CountPendingByNeed(_ context.Context, needID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, req := range r.reqs {
		if req.NeedID == needID && req.IsPending() {
			n++
		}
	}
	return n, nil
}

func (r *memStoreRequestRepo) NextID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return nextID(r.reqs), nil
}

func (r *memStoreRequestRepo) Save(_ context.Context, req *plan.StoreRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	cp.ClearDomainEvents()
	r.reqs[req.ID] = cp
	return nil
}

type memIssueRepo struct {
	mu   sync.Mutex
	recs map[int64]plan.IssueRecord
}

func newMemIssueRepo() *memIssueRepo {
	return &memIssueRepo{recs: make(map[int64]plan.IssueRecord)}
}

func (r *memIssueRepo) FindAll(_ context.Context, filter shared.Filter) ([]plan.IssueRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []plan.IssueRecord
	for _, id := range sortedIDs(r.recs, filter.Descending()) {
		rec := r.recs[id]
		if d := filter.String(plan.FilterDepartment); d != "" && rec.Department != d {
			continue
		}
		if !matchesNeedID(filter, rec.NeedID) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *memIssueRepo) NextID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return nextID(r.recs), nil
}

func (r *memIssueRepo) Create(_ context.Context, rec *plan.IssueRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recs[rec.ID]; ok {
		return shared.NewPersistenceError("create issue record", errors.New("duplicate id"))
	}
	r.recs[rec.ID] = *rec
	return nil
}
