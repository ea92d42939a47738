// Package memory is an in-memory repository implementation backing unit
// tests and local experiments. It is not safe for production use: WithinTx
// applies writes directly, without rollback.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository"
)

type Store struct {
	mu sync.Mutex

	assets     map[int64]*domain.Asset
	orgs       map[int64]*domain.Organization
	allotments map[int64]*domain.Allotment
	extensions map[int64][]domain.Extension
	reports    map[string]*domain.ImportReport

	nextID         int64
	nextAllotmentN int64

	repository.Repositories
}

func NewStore() *Store {
	s := &Store{
		assets:     make(map[int64]*domain.Asset),
		orgs:       make(map[int64]*domain.Organization),
		allotments: make(map[int64]*domain.Allotment),
		extensions: make(map[int64][]domain.Extension),
		reports:    make(map[string]*domain.ImportReport),
	}
	s.Repositories = repository.Repositories{
		Assets:        &assetRepo{s},
		Organizations: &orgRepo{s},
		Allotments:    &allotmentRepo{s},
		ImportReports: &reportRepo{s},
	}
	return s
}

// WithinTx implements repository.TxManager without transactional isolation.
func (s *Store) WithinTx(_ context.Context, fn func(repository.Repositories) error) error {
	return fn(s.Repositories)
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
}

type assetRepo struct{ s *Store }

func (r *assetRepo) Create(_ context.Context, a *domain.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.id()
	cp := *a
	r.s.assets[a.ID] = &cp
	return nil
}

func (r *assetRepo) GetByID(_ context.Context, id int64) (*domain.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assets[id]
	if !ok {
		return nil, notFound(fmt.Sprintf("asset %d", id))
	}
	cp := *a
	return &cp, nil
}

func (r *assetRepo) GetByTagOrSerial(_ context.Context, identifier string) (*domain.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var bySerial *domain.Asset
	for _, a := range r.s.assets {
		if a.AssetTag != "" && a.AssetTag == identifier {
			cp := *a
			return &cp, nil
		}
		if a.SerialNumber != "" && a.SerialNumber == identifier {
			bySerial = a
		}
	}
	if bySerial != nil {
		cp := *bySerial
		return &cp, nil
	}
	return nil, notFound(fmt.Sprintf("asset %q", identifier))
}

func (r *assetRepo) Update(_ context.Context, a *domain.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.assets[a.ID]; !ok {
		return notFound(fmt.Sprintf("asset %d", a.ID))
	}
	cp := *a
	r.s.assets[a.ID] = &cp
	return nil
}

func (r *assetRepo) List(_ context.Context, page, pageSize int32) ([]domain.Asset, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Asset
	for _, a := range r.s.assets {
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AssetTag < all[j].AssetTag })
	return paginate(all, page, pageSize), int32(len(all)), nil
}

func (r *assetRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.assets)), nil
}

type orgRepo struct{ s *Store }

func (r *orgRepo) Create(_ context.Context, o *domain.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.id()
	cp := *o
	r.s.orgs[o.ID] = &cp
	return nil
}

func (r *orgRepo) GetByID(_ context.Context, id int64) (*domain.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orgs[id]
	if !ok {
		return nil, notFound(fmt.Sprintf("organization %d", id))
	}
	cp := *o
	return &cp, nil
}

func (r *orgRepo) GetByCode(_ context.Context, code string) (*domain.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orgs {
		if strings.EqualFold(o.Code, code) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, notFound(fmt.Sprintf("organization %q", code))
}

func (r *orgRepo) Update(_ context.Context, o *domain.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orgs[o.ID]; !ok {
		return notFound(fmt.Sprintf("organization %d", o.ID))
	}
	cp := *o
	r.s.orgs[o.ID] = &cp
	return nil
}

func (r *orgRepo) AdjustAllotmentCounts(_ context.Context, orgID int64, totalDelta, activeDelta int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orgs[orgID]
	if !ok {
		return notFound(fmt.Sprintf("organization %d", orgID))
	}
	o.TotalAllotments += totalDelta
	o.ActiveAllotments += activeDelta
	return nil
}

func (r *orgRepo) List(_ context.Context) ([]domain.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Organization
	for _, o := range r.s.orgs {
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all, nil
}

type allotmentRepo struct{ s *Store }

func (r *allotmentRepo) Create(_ context.Context, a *domain.Allotment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.id()
	cp := *a
	r.s.allotments[a.ID] = &cp
	return nil
}

func (r *allotmentRepo) GetByID(_ context.Context, id int64) (*domain.Allotment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.allotments[id]
	if !ok {
		return nil, notFound(fmt.Sprintf("allotment %d", id))
	}
	cp := *a
	return &cp, nil
}

func (r *allotmentRepo) Update(_ context.Context, a *domain.Allotment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.allotments[a.ID]; !ok {
		return notFound(fmt.Sprintf("allotment %d", a.ID))
	}
	cp := *a
	r.s.allotments[a.ID] = &cp
	return nil
}

func (r *allotmentRepo) AppendExtension(_ context.Context, ext *domain.Extension) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ext.ID = r.s.id()
	if ext.CreatedOn.IsZero() {
		ext.CreatedOn = time.Now()
	}
	r.s.extensions[ext.AllotmentID] = append(r.s.extensions[ext.AllotmentID], *ext)
	return nil
}

func (r *allotmentRepo) ListExtensions(_ context.Context, allotmentID int64) ([]domain.Extension, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Extension(nil), r.s.extensions[allotmentID]...), nil
}

func (r *allotmentRepo) List(_ context.Context, status string, page, pageSize int32) ([]domain.Allotment, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Allotment
	for _, a := range r.s.allotments {
		if status != "" && string(a.Status) != status {
			continue
		}
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, page, pageSize), int32(len(all)), nil
}

func (r *allotmentRepo) ListOpenDueBefore(_ context.Context, cutoff time.Time) ([]domain.Allotment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var due []domain.Allotment
	for _, a := range r.s.allotments {
		open := a.Status == domain.AllotmentStatusActive || a.Status == domain.AllotmentStatusExtended
		if open && a.DueDate.Before(cutoff) {
			due = append(due, *a)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].DueDate.Before(due[j].DueDate) })
	return due, nil
}

func (r *allotmentRepo) NextNumber(_ context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextAllotmentN++
	return fmt.Sprintf("ALT-%05d", r.s.nextAllotmentN), nil
}

type reportRepo struct{ s *Store }

func (r *reportRepo) Create(_ context.Context, report *domain.ImportReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report.ID = r.s.id()
	cp := *report
	r.s.reports[report.UploadID] = &cp
	return nil
}

func (r *reportRepo) Update(_ context.Context, report *domain.ImportReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[report.UploadID]; !ok {
		return notFound(fmt.Sprintf("import report %s", report.UploadID))
	}
	cp := *report
	r.s.reports[report.UploadID] = &cp
	return nil
}

func (r *reportRepo) GetByUploadID(_ context.Context, uploadID string) (*domain.ImportReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report, ok := r.s.reports[uploadID]
	if !ok {
		return nil, notFound(fmt.Sprintf("import report %s", uploadID))
	}
	cp := *report
	return &cp, nil
}

func (r *reportRepo) List(_ context.Context, page, pageSize int32) ([]domain.ImportReport, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.ImportReport
	for _, report := range r.s.reports {
		all = append(all, *report)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, page, pageSize), int32(len(all)), nil
}

func paginate[T any](items []T, page, pageSize int32) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = int32(len(items))
	}
	start := int((page - 1) * pageSize)
	if start >= len(items) {
		return nil
	}
	end := start + int(pageSize)
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
