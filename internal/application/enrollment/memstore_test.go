package enrollment_test

import (
	"context"
	"sort"
	"sync"

	app "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/enrollment"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
)

// memStore banco em memória com as mesmas restrições de unicidade do Postgres.
// Toda leitura e escrita copia os valores; writes conta as escritas (para os testes de idempotência).
type memStore struct {
	mu sync.Mutex

	enrollments map[string]*entity.Enrollment
	order       map[string]int
	guardians   map[string]*entity.Guardian
	students    map[string]*entity.Student
	addresses   map[string]*entity.Address
	links       []*entity.GuardianStudentLink
	seq         int
	writes      int
}

func newMemStore() *memStore {
	return &memStore{
		enrollments: map[string]*entity.Enrollment{},
		order:       map[string]int{},
		guardians:   map[string]*entity.Guardian{},
		students:    map[string]*entity.Student{},
		addresses:   map[string]*entity.Address{},
	}
}

// RunEnrollment executa fn; erro restaura o estado anterior (rollback).
func (m *memStore) RunEnrollment(ctx context.Context, fn func(st app.Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := m.snapshot()
	st := app.Stores{
		Enrollments: enrollmentRepo{m},
		Guardians:   guardianRepo{m},
		Students:    studentRepo{m},
		Addresses:   addressRepo{m},
		Links:       linkRepo{m},
	}
	if err := fn(st); err != nil {
		m.restore(saved)
		return err
	}
	return nil
}

func (m *memStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type memState struct {
	enrollments map[string]*entity.Enrollment
	order       map[string]int
	guardians   map[string]*entity.Guardian
	students    map[string]*entity.Student
	addresses   map[string]*entity.Address
	links       []*entity.GuardianStudentLink
	seq, writes int
}

func (m *memStore) snapshot() memState {
	s := memState{
		enrollments: map[string]*entity.Enrollment{},
		order:       map[string]int{},
		guardians:   map[string]*entity.Guardian{},
		students:    map[string]*entity.Student{},
		addresses:   map[string]*entity.Address{},
		seq:         m.seq,
		writes:      m.writes,
	}
	for k, v := range m.enrollments {
		s.enrollments[k] = cloneEnrollment(v)
	}
	for k, v := range m.order {
		s.order[k] = v
	}
	for k, v := range m.guardians {
		s.guardians[k] = cloneGuardian(v)
	}
	for k, v := range m.students {
		s.students[k] = cloneStudent(v)
	}
	for k, v := range m.addresses {
		c := *v
		s.addresses[k] = &c
	}
	for _, l := range m.links {
		c := *l
		s.links = append(s.links, &c)
	}
	return s
}

func (m *memStore) restore(s memState) {
	m.enrollments, m.order, m.guardians = s.enrollments, s.order, s.guardians
	m.students, m.addresses, m.links = s.students, s.addresses, s.links
	m.seq, m.writes = s.seq, s.writes
}

// ── helpers de cópia ──

func cloneEnrollment(e *entity.Enrollment) *entity.Enrollment {
	c := *e
	if e.PrimaryContact != nil {
		p := *e.PrimaryContact
		c.PrimaryContact = &p
	}
	if e.SecondContact != nil {
		p := *e.SecondContact
		c.SecondContact = &p
	}
	if e.RemoteStudentID != nil {
		v := *e.RemoteStudentID
		c.RemoteStudentID = &v
	}
	if e.IntegratedAt != nil {
		v := *e.IntegratedAt
		c.IntegratedAt = &v
	}
	return &c
}

func cloneGuardian(g *entity.Guardian) *entity.Guardian {
	c := *g
	if g.BirthDate != nil {
		d := *g.BirthDate
		c.BirthDate = &d
	}
	return &c
}

func cloneStudent(s *entity.Student) *entity.Student {
	c := *s
	if s.BirthDate != nil {
		d := *s.BirthDate
		c.BirthDate = &d
	}
	return &c
}

func unique(entityName, field string) error {
	return &domain.UniqueViolationError{Entity: entityName, Field: field}
}

// ── enrollments ──

type enrollmentRepo struct{ m *memStore }

func (r enrollmentRepo) Create(_ context.Context, e *entity.Enrollment) error {
	for _, o := range r.m.enrollments {
		if o.Code == e.Code {
			return unique("enrollment", "code")
		}
	}
	r.m.seq++
	r.m.order[e.ID] = r.m.seq
	r.m.enrollments[e.ID] = cloneEnrollment(e)
	r.m.writes++
	return nil
}

func (r enrollmentRepo) GetByID(_ context.Context, id string) (*entity.Enrollment, error) {
	if e, ok := r.m.enrollments[id]; ok {
		return cloneEnrollment(e), nil
	}
	return nil, nil
}

func (r enrollmentRepo) sorted() []*entity.Enrollment {
	out := make([]*entity.Enrollment, 0, len(r.m.enrollments))
	for _, e := range r.m.enrollments {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return r.m.order[out[i].ID] > r.m.order[out[j].ID] })
	return out
}

func (r enrollmentRepo) FindIncompleteByUser(_ context.Context, email string) (*entity.Enrollment, error) {
	for _, e := range r.sorted() {
		if !e.Completed && e.UserEmail == email {
			return cloneEnrollment(e), nil
		}
	}
	return nil, nil
}

func (r enrollmentRepo) FindIncompleteByPrimaryGuardian(_ context.Context, guardianID string) (*entity.Enrollment, error) {
	for _, e := range r.sorted() {
		if !e.Completed && e.PrimaryGuardianID == guardianID {
			return cloneEnrollment(e), nil
		}
	}
	return nil, nil
}

func (r enrollmentRepo) ListByUser(_ context.Context, email string) ([]*entity.Enrollment, error) {
	var out []*entity.Enrollment
	for _, e := range r.sorted() {
		if e.UserEmail == email {
			out = append(out, cloneEnrollment(e))
		}
	}
	return out, nil
}

func (r enrollmentRepo) CountReferencingGuardian(_ context.Context, guardianID, excludeID string) (int, error) {
	n := 0
	for _, e := range r.m.enrollments {
		if e.ID == excludeID {
			continue
		}
		if e.PrimaryGuardianID == guardianID || e.SecondGuardianID == guardianID {
			n++
		}
	}
	return n, nil
}

func (r enrollmentRepo) Update(_ context.Context, e *entity.Enrollment) error {
	if _, ok := r.m.enrollments[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.m.enrollments[e.ID] = cloneEnrollment(e)
	r.m.writes++
	return nil
}

// ── guardians ──

type guardianRepo struct{ m *memStore }

func (r guardianRepo) checkUnique(g *entity.Guardian) error {
	for _, o := range r.m.guardians {
		if o.ID == g.ID {
			continue
		}
		switch {
		case g.CPF != "" && o.CPF == g.CPF:
			return unique("guardian", "cpf")
		case g.RG != "" && o.RG == g.RG:
			return unique("guardian", "rg")
		case g.Email != "" && o.Email == g.Email:
			return unique("guardian", "email")
		}
	}
	return nil
}

func (r guardianRepo) Create(_ context.Context, g *entity.Guardian) error {
	if err := r.checkUnique(g); err != nil {
		return err
	}
	r.m.guardians[g.ID] = cloneGuardian(g)
	r.m.writes++
	return nil
}

func (r guardianRepo) GetByID(_ context.Context, id string) (*entity.Guardian, error) {
	if g, ok := r.m.guardians[id]; ok {
		return cloneGuardian(g), nil
	}
	return nil, nil
}

func (r guardianRepo) FindByDocument(_ context.Context, cpf, rg string) (*entity.Guardian, error) {
	if cpf != "" {
		for _, g := range r.m.guardians {
			if g.CPF == cpf {
				return cloneGuardian(g), nil
			}
		}
	}
	if rg != "" {
		for _, g := range r.m.guardians {
			if g.RG == rg {
				return cloneGuardian(g), nil
			}
		}
	}
	return nil, nil
}

func (r guardianRepo) FindByEmail(_ context.Context, email string) (*entity.Guardian, error) {
	for _, g := range r.m.guardians {
		if email != "" && g.Email == email {
			return cloneGuardian(g), nil
		}
	}
	return nil, nil
}

func (r guardianRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Guardian, error) {
	var out []*entity.Guardian
	for _, id := range ids {
		if g, ok := r.m.guardians[id]; ok {
			out = append(out, cloneGuardian(g))
		}
	}
	return out, nil
}

func (r guardianRepo) Update(_ context.Context, g *entity.Guardian) error {
	if err := r.checkUnique(g); err != nil {
		return err
	}
	r.m.guardians[g.ID] = cloneGuardian(g)
	r.m.writes++
	return nil
}

// ── students ──

type studentRepo struct{ m *memStore }

func (r studentRepo) checkUnique(s *entity.Student) error {
	for _, o := range r.m.students {
		if o.ID != s.ID && s.CPF != "" && o.CPF == s.CPF {
			return unique("student", "cpf")
		}
	}
	return nil
}

func (r studentRepo) Create(_ context.Context, s *entity.Student) error {
	if err := r.checkUnique(s); err != nil {
		return err
	}
	r.m.students[s.ID] = cloneStudent(s)
	r.m.writes++
	return nil
}

func (r studentRepo) GetByID(_ context.Context, id string) (*entity.Student, error) {
	if s, ok := r.m.students[id]; ok {
		return cloneStudent(s), nil
	}
	return nil, nil
}

func (r studentRepo) FindByCPF(_ context.Context, cpf string) (*entity.Student, error) {
	for _, s := range r.m.students {
		if cpf != "" && s.CPF == cpf {
			return cloneStudent(s), nil
		}
	}
	return nil, nil
}

func (r studentRepo) Update(_ context.Context, s *entity.Student) error {
	if err := r.checkUnique(s); err != nil {
		return err
	}
	r.m.students[s.ID] = cloneStudent(s)
	r.m.writes++
	return nil
}

// ── addresses ──

type addressRepo struct{ m *memStore }

func (r addressRepo) Create(_ context.Context, a *entity.Address) error {
	c := *a
	r.m.addresses[a.ID] = &c
	r.m.writes++
	return nil
}

func (r addressRepo) GetByID(_ context.Context, id string) (*entity.Address, error) {
	if a, ok := r.m.addresses[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, nil
}

func (r addressRepo) Update(_ context.Context, a *entity.Address) error {
	c := *a
	r.m.addresses[a.ID] = &c
	r.m.writes++
	return nil
}

// ── links ──

type linkRepo struct{ m *memStore }

func (r linkRepo) Create(_ context.Context, l *entity.GuardianStudentLink) error {
	for _, o := range r.m.links {
		if o.StudentID == l.StudentID && o.GuardianID == l.GuardianID {
			return unique("guardian_student_link", "student_guardian")
		}
	}
	c := *l
	r.m.links = append(r.m.links, &c)
	r.m.writes++
	return nil
}

func (r linkRepo) Get(_ context.Context, studentID, guardianID string) (*entity.GuardianStudentLink, error) {
	for _, l := range r.m.links {
		if l.StudentID == studentID && l.GuardianID == guardianID {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r linkRepo) ListByStudent(_ context.Context, studentID string) ([]*entity.GuardianStudentLink, error) {
	var out []*entity.GuardianStudentLink
	for _, l := range r.m.links {
		if l.StudentID == studentID {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r linkRepo) Update(_ context.Context, l *entity.GuardianStudentLink) error {
	for i, o := range r.m.links {
		if o.ID == l.ID {
			c := *l
			r.m.links[i] = &c
			r.m.writes++
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r linkRepo) DeleteExcept(_ context.Context, studentID string, keep []string) (int, error) {
	kept := r.m.links[:0:0]
	removed := 0
	for _, l := range r.m.links {
		if l.StudentID != studentID || containsID(keep, l.GuardianID) {
			kept = append(kept, l)
			continue
		}
		removed++
	}
	r.m.links = kept
	r.m.writes++
	return removed, nil
}

func containsID(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ── acesso direto para asserções ──

func (m *memStore) guardianByID(id string) *entity.Guardian {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.guardians[id]; ok {
		return cloneGuardian(g)
	}
	return nil
}

func (m *memStore) addressByID(id string) *entity.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.addresses[id]; ok {
		c := *a
		return &c
	}
	return nil
}

func (m *memStore) enrollmentByID(id string) *entity.Enrollment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.enrollments[id]; ok {
		return cloneEnrollment(e)
	}
	return nil
}

func (m *memStore) studentByID(id string) *entity.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.students[id]; ok {
		return cloneStudent(s)
	}
	return nil
}

func (m *memStore) guardianCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.guardians)
}

func (m *memStore) linksOf(studentID string) []entity.GuardianStudentLink {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.GuardianStudentLink
	for _, l := range m.links {
		if l.StudentID == studentID {
			out = append(out, *l)
		}
	}
	return out
}
