package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User // keyed by ID
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.seq)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, fullName, phone, address string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.FullName, u.Phone, u.Address = fullName, phone, address
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return cloneUser(u), nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	users, _ := r.ListByRole(ctx, role)
	return int64(len(users)), nil
}

type stubFoodRepo struct {
	foods map[string]*domain.Food
	seq   int
	// lastSearch records the query and limit of the last Search call.
	lastSearch      string
	lastSearchLimit int
}

func newStubFoodRepo(seed ...*domain.Food) *stubFoodRepo {
	r := &stubFoodRepo{foods: make(map[string]*domain.Food)}
	for _, f := range seed {
		c := *f
		r.foods[c.ID] = &c
	}
	return r
}

func (r *stubFoodRepo) Create(_ context.Context, food *domain.Food) (*domain.Food, error) {
	r.seq++
	c := *food
	c.ID = fmt.Sprintf("f%d", r.seq)
	r.foods[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubFoodRepo) FindByID(_ context.Context, id string) (*domain.Food, error) {
	f, ok := r.foods[id]
	if !ok {
		return nil, domain.ErrFoodNotFound
	}
	c := *f
	return &c, nil
}

func (r *stubFoodRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Food, error) {
	out := make(map[string]*domain.Food)
	for _, id := range ids {
		if f, ok := r.foods[id]; ok {
			c := *f
			out[id] = &c
		}
	}
	return out, nil
}

func (r *stubFoodRepo) List(_ context.Context, filter domain.FoodFilter) ([]*domain.Food, error) {
	var out []*domain.Food
	for _, f := range r.foods {
		if filter.Category != "" && f.Category != filter.Category {
			continue
		}
		if filter.Available != nil && f.Available != *filter.Available {
			continue
		}
		c := *f
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubFoodRepo) Search(_ context.Context, query string, limit int) ([]*domain.Food, error) {
	r.lastSearch, r.lastSearchLimit = query, limit
	var out []*domain.Food
	for _, f := range r.foods {
		if strings.Contains(strings.ToLower(f.Name), strings.ToLower(query)) {
			c := *f
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubFoodRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, f := range r.foods {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubFoodRepo) Replace(_ context.Context, food *domain.Food) (*domain.Food, error) {
	if _, ok := r.foods[food.ID]; !ok {
		return nil, domain.ErrFoodNotFound
	}
	c := *food
	r.foods[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubFoodRepo) SetAvailability(_ context.Context, id string, available bool) (*domain.Food, error) {
	f, ok := r.foods[id]
	if !ok {
		return nil, domain.ErrFoodNotFound
	}
	f.Available = available
	c := *f
	return &c, nil
}

func (r *stubFoodRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.foods[id]; !ok {
		return domain.ErrFoodNotFound
	}
	delete(r.foods, id)
	return nil
}

type stubOrderRepo struct {
	orders map[string]*domain.Order
	seq    int
	// lastFilter is the filter passed to the last List call.
	lastFilter domain.OrderFilter
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return &c
}

func (r *stubOrderRepo) put(o *domain.Order) {
	r.orders[o.ID] = cloneOrder(o)
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.seq++
	c := cloneOrder(order)
	c.ID = fmt.Sprintf("o%d", r.seq)
	r.orders[c.ID] = c
	return cloneOrder(c), nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) List(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	r.lastFilter = filter
	var matched []*domain.Order
	for _, o := range r.orders {
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubOrderRepo) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if _, ok := r.orders[order.ID]; !ok {
		return nil, domain.ErrOrderNotFound
	}
	r.put(order)
	return cloneOrder(order), nil
}

func (r *stubOrderRepo) CountByStatus(_ context.Context, status domain.OrderStatus) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *stubOrderRepo) Revenue(_ context.Context, statuses []domain.OrderStatus) (float64, error) {
	var sum float64
	for _, o := range r.orders {
		for _, s := range statuses {
			if o.Status == s {
				sum += o.TotalAmount
			}
		}
	}
	return sum, nil
}

func (r *stubOrderRepo) Recent(_ context.Context, limit int) ([]*domain.Order, error) {
	all, _, _ := r.List(context.Background(), domain.OrderFilter{Page: 1, Limit: len(r.orders)})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
