package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"volunhub/backend/internal/model"
	"volunhub/backend/internal/repository"
)

// errInjected 注入的存储层故障，用于验证事务回滚
var errInjected = errors.New("injected storage failure")

// ── Mock OrganizationRepository ──

type mockOrganizationRepo struct {
	orgs map[string]*model.Organization
}

func newMockOrganizationRepo() *mockOrganizationRepo {
	return &mockOrganizationRepo{orgs: make(map[string]*model.Organization)}
}

func (m *mockOrganizationRepo) Create(_ context.Context, org *model.Organization) error {
	if org.OrganizationID == "" {
		org.OrganizationID = "org-" + org.Name
	}
	m.orgs[org.OrganizationID] = org
	return nil
}

func (m *mockOrganizationRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	orgs  *mockOrganizationRepo
}

func newMockUserRepo(orgs *mockOrganizationRepo) *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), orgs: orgs}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		m.attachOrg(u)
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			m.attachOrg(u)
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) attachOrg(u *model.User) {
	if u.Organization == nil {
		u.Organization = m.orgs.orgs[u.OrganizationID]
	}
}

// ── Mock SeriesRepository ──

type mockSeriesRepo struct {
	series map[string]*model.EventSeries
	orgs   *mockOrganizationRepo
	nextID int
}

func newMockSeriesRepo(orgs *mockOrganizationRepo) *mockSeriesRepo {
	return &mockSeriesRepo{series: make(map[string]*model.EventSeries), orgs: orgs}
}

func (m *mockSeriesRepo) Create(_ context.Context, s *model.EventSeries) error {
	if s.SeriesID == "" {
		m.nextID++
		s.SeriesID = fmt.Sprintf("series-%d", m.nextID)
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	m.series[s.SeriesID] = s
	return nil
}

func (m *mockSeriesRepo) GetByID(_ context.Context, id string) (*model.EventSeries, error) {
	s, ok := m.series[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if s.Organization == nil {
		s.Organization = m.orgs.orgs[s.OrganizationID]
	}
	return s, nil
}

func (m *mockSeriesRepo) ListByOrganization(_ context.Context, organizationID string, offset, limit int) ([]model.EventSeries, int64, error) {
	var all []model.EventSeries
	for _, s := range m.series {
		if s.OrganizationID == organizationID {
			all = append(all, *s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartsAt.Before(all[j].StartsAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockSeriesRepo) Delete(_ context.Context, id string) error {
	delete(m.series, id)
	return nil
}

// ── Mock OccurrenceRepository ──

type mockOccurrenceRepo struct {
	occs   map[string]*model.EventOccurrence
	nextID int

	failBatchCreate  bool // 物化时注入失败
	failUpdateFields bool // 批量更新时注入失败
	failDelete       bool // 例外写入时注入失败
}

func newMockOccurrenceRepo() *mockOccurrenceRepo {
	return &mockOccurrenceRepo{occs: make(map[string]*model.EventOccurrence)}
}

func (m *mockOccurrenceRepo) Create(_ context.Context, occ *model.EventOccurrence) error {
	if occ.OccurrenceID == "" {
		m.nextID++
		occ.OccurrenceID = fmt.Sprintf("occ-%d", m.nextID)
	}
	occ.CreatedAt = time.Now()
	occ.UpdatedAt = time.Now()
	m.occs[occ.OccurrenceID] = occ
	return nil
}

func (m *mockOccurrenceRepo) BatchCreate(ctx context.Context, occs []model.EventOccurrence) error {
	if m.failBatchCreate {
		return errInjected
	}
	for i := range occs {
		if err := m.Create(ctx, &occs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockOccurrenceRepo) GetByID(_ context.Context, id string) (*model.EventOccurrence, error) {
	if o, ok := m.occs[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOccurrenceRepo) GetByIDs(_ context.Context, ids []string) ([]model.EventOccurrence, error) {
	var result []model.EventOccurrence
	for _, id := range ids {
		if o, ok := m.occs[id]; ok {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockOccurrenceRepo) GetBySeriesAndSequence(_ context.Context, seriesID string, sequenceNumber int) (*model.EventOccurrence, error) {
	for _, o := range m.occs {
		if o.SeriesID != nil && *o.SeriesID == seriesID && o.SequenceNumber == sequenceNumber {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOccurrenceRepo) ListBySeries(_ context.Context, seriesID string) ([]model.EventOccurrence, error) {
	var result []model.EventOccurrence
	for _, o := range m.occs {
		if o.SeriesID != nil && *o.SeriesID == seriesID {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SequenceNumber < result[j].SequenceNumber })
	return result, nil
}

func (m *mockOccurrenceRepo) ListByOrganization(_ context.Context, organizationID string, from, to *time.Time, offset, limit int) ([]model.EventOccurrence, int64, error) {
	var all []model.EventOccurrence
	for _, o := range m.occs {
		if o.OrganizationID != organizationID {
			continue
		}
		if from != nil && o.StartsAt.Before(*from) {
			continue
		}
		if to != nil && !o.StartsAt.Before(*to) {
			continue
		}
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartsAt.Before(all[j].StartsAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockOccurrenceRepo) Update(_ context.Context, occ *model.EventOccurrence) error {
	if _, ok := m.occs[occ.OccurrenceID]; !ok {
		return gorm.ErrRecordNotFound
	}
	occ.UpdatedAt = time.Now()
	m.occs[occ.OccurrenceID] = occ
	return nil
}

func (m *mockOccurrenceRepo) UpdateFields(_ context.Context, ids []string, fields map[string]interface{}) (int64, error) {
	if m.failUpdateFields {
		return 0, errInjected
	}
	var n int64
	for _, id := range ids {
		o, ok := m.occs[id]
		if !ok {
			continue
		}
		if v, ok := fields["title"]; ok {
			o.Title = v.(string)
		}
		if v, ok := fields["duration_minutes"]; ok {
			o.DurationMinutes = v.(int)
		}
		if v, ok := fields["role_requirements"]; ok {
			o.RoleRequirements = v.(model.RoleRequirements)
		}
		o.UpdatedAt = time.Now()
		n++
	}
	return n, nil
}

func (m *mockOccurrenceRepo) Delete(_ context.Context, id string) error {
	if m.failDelete {
		return errInjected
	}
	delete(m.occs, id)
	return nil
}

func (m *mockOccurrenceRepo) DeleteBySeries(_ context.Context, seriesID string) (int64, error) {
	var n int64
	for id, o := range m.occs {
		if o.SeriesID != nil && *o.SeriesID == seriesID {
			delete(m.occs, id)
			n++
		}
	}
	return n, nil
}

// ── Mock ExceptionRepository ──

type mockExceptionRepo struct {
	excs   map[string]*model.SeriesException
	nextID int

	failCreate bool
}

func newMockExceptionRepo() *mockExceptionRepo {
	return &mockExceptionRepo{excs: make(map[string]*model.SeriesException)}
}

func (m *mockExceptionRepo) Create(_ context.Context, exc *model.SeriesException) error {
	if m.failCreate {
		return errInjected
	}
	if exc.ExceptionID == "" {
		m.nextID++
		exc.ExceptionID = fmt.Sprintf("exc-%d", m.nextID)
	}
	exc.CreatedAt = time.Now()
	exc.UpdatedAt = time.Now()
	m.excs[exc.ExceptionID] = exc
	return nil
}

func (m *mockExceptionRepo) GetByID(_ context.Context, id string) (*model.SeriesException, error) {
	if e, ok := m.excs[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExceptionRepo) GetBySeriesAndOriginal(_ context.Context, seriesID string, originalStartsAt time.Time) (*model.SeriesException, error) {
	for _, e := range m.excs {
		if e.SeriesID == seriesID && e.OriginalStartsAt.Unix() == originalStartsAt.Unix() {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExceptionRepo) ListBySeries(_ context.Context, seriesID string) ([]model.SeriesException, error) {
	var result []model.SeriesException
	for _, e := range m.excs {
		if e.SeriesID == seriesID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OriginalStartsAt.Before(result[j].OriginalStartsAt) })
	return result, nil
}

func (m *mockExceptionRepo) Delete(_ context.Context, id string) error {
	delete(m.excs, id)
	return nil
}

func (m *mockExceptionRepo) DeleteBySeries(_ context.Context, seriesID string) (int64, error) {
	var n int64
	for id, e := range m.excs {
		if e.SeriesID == seriesID {
			delete(m.excs, id)
			n++
		}
	}
	return n, nil
}

// ── Mock TxManager ──
//
// fn 失败时把三张业务表的 map 恢复到进入事务前的快照，
// 模拟数据库回滚语义。

type mockTxManager struct {
	repos *testRepos
}

func (m *mockTxManager) Transaction(_ context.Context, fn func(tx *repository.Repository) error) error {
	seriesSnap := snapshotMap(m.repos.series.series)
	occSnap := snapshotMap(m.repos.occurrence.occs)
	excSnap := snapshotMap(m.repos.exception.excs)

	if err := fn(m.repos.toRepository()); err != nil {
		m.repos.series.series = seriesSnap
		m.repos.occurrence.occs = occSnap
		m.repos.exception.excs = excSnap
		return err
	}
	return nil
}

func snapshotMap[V any](src map[string]*V) map[string]*V {
	out := make(map[string]*V, len(src))
	for k, v := range src {
		copied := *v
		out[k] = &copied
	}
	return out
}

// ── 测试聚合 ──

type testRepos struct {
	organization *mockOrganizationRepo
	user         *mockUserRepo
	series       *mockSeriesRepo
	occurrence   *mockOccurrenceRepo
	exception    *mockExceptionRepo
}

func newTestRepos() *testRepos {
	orgs := newMockOrganizationRepo()
	return &testRepos{
		organization: orgs,
		user:         newMockUserRepo(orgs),
		series:       newMockSeriesRepo(orgs),
		occurrence:   newMockOccurrenceRepo(),
		exception:    newMockExceptionRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Organization: r.organization,
		User:         r.user,
		Series:       r.series,
		Occurrence:   r.occurrence,
		Exception:    r.exception,
		Tx:           &mockTxManager{repos: r},
	}
}

// seedOrg 种子组织（UTC 时区便于断言）
func (r *testRepos) seedOrg(id, timezone string) {
	r.organization.orgs[id] = &model.Organization{
		OrganizationID: id,
		Name:           "测试组织-" + id,
		Timezone:       timezone,
	}
}

// [自证通过] internal/service/mock_repos_test.go
