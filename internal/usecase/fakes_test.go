package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/queue"
)

var errUnsupported = errors.New("not supported by fake")

// memStore is an in-memory ClassificationStore with per-phone locks and all-or-nothing
// commits, mirroring the advisory-lock transaction.
type memStore struct {
	mu            sync.Mutex
	locks         map[string]*sync.Mutex
	clients       map[string]entity.Client
	sales         map[string]entity.Sale
	seq           map[string]int
	next          int
	createSaleErr error
	lockCalls     int
}

func newMemStore() *memStore {
	return &memStore{
		locks:   make(map[string]*sync.Mutex),
		clients: make(map[string]entity.Client),
		sales:   make(map[string]entity.Sale),
		seq:     make(map[string]int),
	}
}

func (s *memStore) lockFor(phone string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[phone]
	if !ok {
		l = &sync.Mutex{}
		s.locks[phone] = l
	}
	return l
}

func (s *memStore) WithinPhoneLock(ctx context.Context, phone string, fn func(ctx context.Context, clients entity.ClientRepositoryInterface, sales entity.SaleRepositoryInterface) error) error {
	s.mu.Lock()
	s.lockCalls++
	s.mu.Unlock()

	l := s.lockFor(phone)
	l.Lock()
	defer l.Unlock()

	tx := &memTx{
		store:   s,
		clients: make(map[string]entity.Client),
		sales:   make(map[string]entity.Sale),
		seq:     make(map[string]int),
	}
	if err := fn(ctx, &memTxClients{tx}, &memTxSales{tx}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range tx.clients {
		s.clients[id] = c
	}
	for id, sale := range tx.sales {
		s.sales[id] = sale
	}
	for id, n := range tx.seq {
		s.seq[id] = n
	}
	return nil
}

func (s *memStore) nextSeq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

func (s *memStore) transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockCalls
}

func (s *memStore) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *memStore) clientByPhone(phone string) (entity.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.Phone == phone {
			return c, true
		}
	}
	return entity.Client{}, false
}

// salesOf returns the committed sales of a client in insertion order.
func (s *memStore) salesOf(clientID string) []entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Sale
	for _, sale := range s.sales {
		if sale.ClientID == clientID {
			out = append(out, sale)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.seq[out[i].ID] < s.seq[out[j].ID] })
	return out
}

func (s *memStore) seed(c entity.Client, sales ...entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
	for _, sale := range sales {
		s.next++
		s.sales[sale.ID] = sale
		s.seq[sale.ID] = s.next
	}
}

type memTx struct {
	store   *memStore
	clients map[string]entity.Client
	sales   map[string]entity.Sale
	seq     map[string]int
}

type memTxClients struct{ tx *memTx }

func (r *memTxClients) all() map[string]entity.Client {
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	out := make(map[string]entity.Client, len(r.tx.store.clients)+len(r.tx.clients))
	for id, c := range r.tx.store.clients {
		out[id] = c
	}
	for id, c := range r.tx.clients {
		out[id] = c
	}
	return out
}

func (r *memTxClients) Create(ctx context.Context, c *entity.Client) error {
	for _, existing := range r.all() {
		if existing.Email == c.Email {
			return entity.ErrEmailAlreadyExists
		}
		if existing.Phone == c.Phone {
			return entity.ErrConflict
		}
	}
	r.tx.clients[c.ID] = *c
	return nil
}

func (r *memTxClients) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	if c, ok := r.all()[id]; ok {
		return &c, nil
	}
	return nil, entity.ErrNotFound
}

func (r *memTxClients) FindByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	for _, c := range r.all() {
		if c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *memTxClients) List(ctx context.Context, f entity.ClientFilter) ([]*entity.Client, int, error) {
	return nil, 0, errUnsupported
}
func (r *memTxClients) Update(ctx context.Context, c *entity.Client) error { return errUnsupported }
func (r *memTxClients) Delete(ctx context.Context, id string) error        { return errUnsupported }
func (r *memTxClients) Count(ctx context.Context) (int, error)             { return len(r.all()), nil }

type memTxSales struct{ tx *memTx }

func (r *memTxSales) Create(ctx context.Context, s *entity.Sale) error {
	if r.tx.store.createSaleErr != nil {
		return r.tx.store.createSaleErr
	}
	r.tx.sales[s.ID] = *s
	r.tx.seq[s.ID] = r.tx.store.nextSeq()
	return nil
}

func (r *memTxSales) FindByID(ctx context.Context, id string) (*entity.Sale, error) {
	if s, ok := r.tx.sales[id]; ok {
		return &s, nil
	}
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	if s, ok := r.tx.store.sales[id]; ok {
		return &s, nil
	}
	return nil, entity.ErrNotFound
}

func (r *memTxSales) FindLatestOpenByClientID(ctx context.Context, clientID string) (*entity.Sale, error) {
	r.tx.store.mu.Lock()
	merged := make(map[string]entity.Sale, len(r.tx.store.sales))
	seq := make(map[string]int, len(r.tx.store.seq))
	for id, s := range r.tx.store.sales {
		merged[id] = s
		seq[id] = r.tx.store.seq[id]
	}
	r.tx.store.mu.Unlock()
	for id, s := range r.tx.sales {
		merged[id] = s
		if n, ok := r.tx.seq[id]; ok {
			seq[id] = n
		}
	}

	var (
		best    entity.Sale
		bestSeq = -1
	)
	for id, s := range merged {
		if s.ClientID == clientID && s.Status.Open() && seq[id] > bestSeq {
			best, bestSeq = s, seq[id]
		}
	}
	if bestSeq < 0 {
		return nil, entity.ErrNotFound
	}
	return &best, nil
}

func (r *memTxSales) List(ctx context.Context, f entity.SaleFilter) ([]*entity.Sale, int, error) {
	return nil, 0, errUnsupported
}

func (r *memTxSales) Update(ctx context.Context, s *entity.Sale) error {
	if _, err := r.FindByID(ctx, s.ID); err != nil {
		return err
	}
	r.tx.sales[s.ID] = *s
	return nil
}

func (r *memTxSales) Delete(ctx context.Context, id string) error { return errUnsupported }
func (r *memTxSales) TotalsByStatus(ctx context.Context) ([]entity.StatusTotal, error) {
	return nil, errUnsupported
}
func (r *memTxSales) DailyTotals(ctx context.Context, since time.Time) ([]entity.DailyTotal, error) {
	return nil, errUnsupported
}
func (r *memTxSales) ExpirePending(ctx context.Context, cutoff time.Time) ([]*entity.Sale, error) {
	return nil, errUnsupported
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) PublishSaleEvent(ctx context.Context, p queue.SaleEventPayload) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
