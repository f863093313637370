package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

// memAccounts is an in-memory ports.AccountRepository with a unique email constraint.
type memAccounts struct {
	mu      sync.Mutex
	byID    map[string]*domain.Account
	byEmail map[string]string
	seq     int
	err     error // returned by every call when set
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[string]*domain.Account{}, byEmail: map[string]string{}}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	if a.Contractor != nil {
		p := *a.Contractor
		p.Skills = append([]string(nil), a.Contractor.Skills...)
		c.Contractor = &p
	}
	return &c
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	id, ok := m.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("account: %w", domain.ErrNotFound)
	}
	return cloneAccount(m.byID[id]), nil
}

func (m *memAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("account: %w", domain.ErrNotFound)
	}
	return cloneAccount(a), nil
}

func (m *memAccounts) Insert(_ context.Context, account *domain.Account) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	email := domain.NormalizeEmail(account.Email)
	if _, ok := m.byEmail[email]; ok {
		return "", domain.ErrDuplicateAccount
	}
	m.seq++
	id := fmt.Sprintf("acc-%d", m.seq)
	stored := cloneAccount(account)
	stored.ID = id
	stored.Email = email
	m.byID[id] = stored
	m.byEmail[email] = id
	account.ID = id
	return id, nil
}

// seed stores an account directly and returns its id.
func (m *memAccounts) seed(a domain.Account) string {
	id, err := m.Insert(context.Background(), &a)
	if err != nil {
		panic(err)
	}
	return id
}

func (m *memAccounts) List(_ context.Context, filter ports.AccountFilter) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Account
	for _, id := range m.sortedIDs() {
		a := m.byID[id]
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

func (m *memAccounts) ListContractors(_ context.Context, filter ports.ContractorFilter) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Account
	for _, id := range m.sortedIDs() {
		a := m.byID[id]
		if a.Role != domain.RoleContractor || !a.IsActive || a.Contractor == nil {
			continue
		}
		if len(filter.Skills) > 0 && !anyOf(a.Contractor.Skills, filter.Skills) {
			continue
		}
		if filter.MinRating > 0 && a.Contractor.Rating < filter.MinRating {
			continue
		}
		if filter.MaxRate > 0 && a.Contractor.HourlyRate > filter.MaxRate {
			continue
		}
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

func (m *memAccounts) UpdateContractorProfile(_ context.Context, id string, profile domain.ContractorProfile) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok || a.Role != domain.RoleContractor {
		return nil, fmt.Errorf("contractor: %w", domain.ErrNotFound)
	}
	a.Contractor = &profile
	return cloneAccount(a), nil
}

func (m *memAccounts) IncrementCompletedProjects(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok || a.Contractor == nil {
		return fmt.Errorf("contractor: %w", domain.ErrNotFound)
	}
	a.Contractor.CompletedProjects++
	return nil
}

func (m *memAccounts) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[domain.Role]int64{}
	for _, a := range m.byID {
		out[a.Role]++
	}
	return out, nil
}

func (m *memAccounts) sortedIDs() []string {
	ids := make([]string, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// memProjects is an in-memory ports.ProjectRepository.
type memProjects struct {
	mu    sync.Mutex
	items map[string]*domain.Project
	order []string
	seq   int
}

func newMemProjects() *memProjects {
	return &memProjects{items: map[string]*domain.Project{}}
}

func cloneProject(p *domain.Project) *domain.Project {
	c := *p
	c.SkillsRequired = append([]string(nil), p.SkillsRequired...)
	return &c
}

func (m *memProjects) Create(_ context.Context, p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	p.ID = fmt.Sprintf("prj-%d", m.seq)
	m.items[p.ID] = cloneProject(p)
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memProjects) FindByID(_ context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("project: %w", domain.ErrNotFound)
	}
	return cloneProject(p), nil
}

func (m *memProjects) List(_ context.Context, filter ports.ProjectFilter) ([]*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Project
	for i := len(m.order) - 1; i >= 0; i-- {
		p, ok := m.items[m.order[i]]
		if !ok {
			continue
		}
		if filter.ClientID != "" && p.ClientID != filter.ClientID {
			continue
		}
		if filter.ContractorID != "" && p.ContractorID != filter.ContractorID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, p.Status) {
			continue
		}
		if len(filter.Skills) > 0 && !anyOf(p.SkillsRequired, filter.Skills) {
			continue
		}
		out = append(out, cloneProject(p))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *memProjects) Update(_ context.Context, p *domain.Project, expected domain.ProjectStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.items[p.ID]
	if !ok || stored.Status != expected {
		return fmt.Errorf("%w: project is no longer %s", domain.ErrInvalidTransition, expected)
	}
	m.items[p.ID] = cloneProject(p)
	return nil
}

func (m *memProjects) Delete(_ context.Context, id, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.ClientID != clientID {
		return fmt.Errorf("project: %w", domain.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *memProjects) CountByStatus(_ context.Context) (map[domain.ProjectStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[domain.ProjectStatus]int64{}
	for _, p := range m.items {
		out[p.Status]++
	}
	return out, nil
}

// readBarrier holds each FindByID caller until n callers have read, so
// concurrent writers all start from the same snapshot.
type readBarrier struct {
	*memProjects
	arrived sync.WaitGroup
}

func newReadBarrier(projects *memProjects, n int) *readBarrier {
	b := &readBarrier{memProjects: projects}
	b.arrived.Add(n)
	return b
}

func (b *readBarrier) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := b.memProjects.FindByID(ctx, id)
	b.arrived.Done()
	b.arrived.Wait()
	return p, err
}

// memProposals is an in-memory ports.ProposalRepository with the
// one-proposal-per-contractor-per-project constraint.
type memProposals struct {
	mu    sync.Mutex
	items map[string]*domain.Proposal
	order []string
	seq   int
}

func newMemProposals() *memProposals {
	return &memProposals{items: map[string]*domain.Proposal{}}
}

func (m *memProposals) Create(_ context.Context, p *domain.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.ProjectID == p.ProjectID && existing.ContractorID == p.ContractorID {
			return domain.ErrDuplicateProposal
		}
	}
	m.seq++
	p.ID = fmt.Sprintf("prop-%d", m.seq)
	c := *p
	m.items[p.ID] = &c
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memProposals) FindByID(_ context.Context, id string) (*domain.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("proposal: %w", domain.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (m *memProposals) filter(keep func(*domain.Proposal) bool) []*domain.Proposal {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Proposal
	for i := len(m.order) - 1; i >= 0; i-- {
		p, ok := m.items[m.order[i]]
		if ok && keep(p) {
			c := *p
			out = append(out, &c)
		}
	}
	return out
}

func (m *memProposals) ListByProject(_ context.Context, projectID string) ([]*domain.Proposal, error) {
	return m.filter(func(p *domain.Proposal) bool { return p.ProjectID == projectID }), nil
}

func (m *memProposals) ListByContractor(_ context.Context, contractorID string) ([]*domain.Proposal, error) {
	return m.filter(func(p *domain.Proposal) bool { return p.ContractorID == contractorID }), nil
}

func (m *memProposals) CountByProjects(_ context.Context, projectIDs []string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[string]bool{}
	for _, id := range projectIDs {
		want[id] = true
	}
	out := map[string]int64{}
	for _, p := range m.items {
		if want[p.ProjectID] {
			out[p.ProjectID]++
		}
	}
	return out, nil
}

func (m *memProposals) SetStatus(_ context.Context, id string, from, to domain.ProposalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.Status != from {
		return fmt.Errorf("%w: proposal is no longer %s", domain.ErrInvalidTransition, from)
	}
	p.Status = to
	return nil
}

func (m *memProposals) RejectPending(_ context.Context, projectID, keepID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.items {
		if p.ProjectID == projectID && id != keepID && p.Status == domain.ProposalPending {
			p.Status = domain.ProposalRejected
		}
	}
	return nil
}

func (m *memProposals) DeleteByProject(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.items {
		if p.ProjectID == projectID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *memProposals) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

// memMessages is an in-memory ports.MessageRepository.
type memMessages struct {
	mu    sync.Mutex
	items []*domain.Message
}

func (m *memMessages) Create(_ context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = fmt.Sprintf("msg-%d", len(m.items)+1)
	c := *msg
	m.items = append(m.items, &c)
	return nil
}

func (m *memMessages) List(_ context.Context, accountID, peerID string, limit int) ([]*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Message
	for i := len(m.items) - 1; i >= 0; i-- {
		msg := m.items[i]
		involved := msg.SenderID == accountID || msg.RecipientID == accountID
		if !involved {
			continue
		}
		if peerID != "" && msg.SenderID != peerID && msg.RecipientID != peerID {
			continue
		}
		c := *msg
		out = append(out, &c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memMessages) MarkRead(_ context.Context, id, recipientID string) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.items {
		if msg.ID == id && msg.RecipientID == recipientID {
			msg.Read = true
			c := *msg
			return &c, nil
		}
	}
	return nil, fmt.Errorf("message: %w", domain.ErrNotFound)
}

func anyOf(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func containsStatus(list []domain.ProjectStatus, s domain.ProjectStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var (
	_ ports.AccountRepository  = (*memAccounts)(nil)
	_ ports.ProjectRepository  = (*memProjects)(nil)
	_ ports.ProposalRepository = (*memProposals)(nil)
	_ ports.MessageRepository  = (*memMessages)(nil)
)
