package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
)

// fakeRepo is an in-memory repo.Repo.
type fakeRepo struct {
	mu          sync.Mutex
	nextID      int64
	martyrs     map[int64]models.Martyr
	testimonies map[int64]models.Testimony
	centuries   map[int64]models.TimelineCentury
	entries     map[int64]models.TimelineEntry
	writes      int
	fail        error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		martyrs:     map[int64]models.Martyr{},
		testimonies: map[int64]models.Testimony{},
		centuries:   map[int64]models.TimelineCentury{},
		entries:     map[int64]models.TimelineEntry{},
	}
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) ListMartyrs(context.Context) ([]models.Martyr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	out := []models.Martyr{}
	for _, m := range f.martyrs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) GetMartyr(_ context.Context, id int64) (models.Martyr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.martyrs[id]
	if !ok {
		return models.Martyr{}, models.ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) CreateMartyr(_ context.Context, m models.Martyr) (models.Martyr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	m.ID = f.id()
	m.CreatedAt, m.UpdatedAt = time.Now(), time.Now()
	f.martyrs[m.ID] = m
	return m, nil
}

func (f *fakeRepo) UpdateMartyr(_ context.Context, id int64, m models.Martyr) (models.Martyr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	old, ok := f.martyrs[id]
	if !ok {
		return models.Martyr{}, models.ErrNotFound
	}
	m.ID, m.CreatedAt, m.UpdatedAt = id, old.CreatedAt, time.Now()
	f.martyrs[id] = m
	return m, nil
}

func (f *fakeRepo) DeleteMartyr(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if _, ok := f.martyrs[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.martyrs, id)
	return nil
}

func (f *fakeRepo) listTestimonies(onlyApproved bool) []models.Testimony {
	out := []models.Testimony{}
	for _, t := range f.testimonies {
		if onlyApproved && t.Status != models.TestimonyApproved {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (f *fakeRepo) ListTestimonies(context.Context) ([]models.Testimony, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listTestimonies(false), nil
}

func (f *fakeRepo) ListApprovedTestimonies(context.Context) ([]models.Testimony, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listTestimonies(true), nil
}

func (f *fakeRepo) GetTestimony(_ context.Context, id int64) (models.Testimony, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.testimonies[id]
	if !ok {
		return models.Testimony{}, models.ErrNotFound
	}
	return t, nil
}

func (f *fakeRepo) CreateTestimony(_ context.Context, t models.Testimony) (models.Testimony, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	t.ID = f.id()
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	if t.Status == "" {
		t.Status = models.TestimonyPending
	}
	t.CreatedAt = time.Now()
	f.testimonies[t.ID] = t
	return t, nil
}

func (f *fakeRepo) UpdateTestimony(_ context.Context, id int64, t models.Testimony) (models.Testimony, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	old, ok := f.testimonies[id]
	if !ok {
		return models.Testimony{}, models.ErrNotFound
	}
	t.ID, t.CreatedAt = id, old.CreatedAt
	if t.Date.IsZero() {
		t.Date = old.Date
	}
	f.testimonies[id] = t
	return t, nil
}

func (f *fakeRepo) DeleteTestimony(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if _, ok := f.testimonies[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.testimonies, id)
	return nil
}

func (f *fakeRepo) ListCenturies(context.Context) ([]models.TimelineCentury, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.TimelineCentury{}
	for _, c := range f.centuries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Century < out[j].Century })
	return out, nil
}

func (f *fakeRepo) GetCentury(_ context.Context, id int64) (models.TimelineCentury, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.centuries[id]
	if !ok {
		return models.TimelineCentury{}, models.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) CreateCentury(_ context.Context, century string) (models.TimelineCentury, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	for _, c := range f.centuries {
		if c.Century == century {
			return models.TimelineCentury{}, models.ErrConflict
		}
	}
	c := models.TimelineCentury{ID: f.id(), Century: century}
	f.centuries[c.ID] = c
	return c, nil
}

func (f *fakeRepo) UpdateCentury(_ context.Context, id int64, century string) (models.TimelineCentury, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if _, ok := f.centuries[id]; !ok {
		return models.TimelineCentury{}, models.ErrNotFound
	}
	c := models.TimelineCentury{ID: id, Century: century}
	f.centuries[id] = c
	return c, nil
}

func (f *fakeRepo) DeleteCentury(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if _, ok := f.centuries[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.centuries, id)
	for eid, e := range f.entries {
		if e.CenturyID == id {
			delete(f.entries, eid)
		}
	}
	return nil
}

func (f *fakeRepo) withCentury(e models.TimelineEntry) models.TimelineEntry {
	c := f.centuries[e.CenturyID]
	e.Century = &c
	return e
}

func (f *fakeRepo) ListEntries(context.Context) ([]models.TimelineEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.TimelineEntry{}
	for _, e := range f.entries {
		out = append(out, f.withCentury(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) GetEntry(_ context.Context, id int64) (models.TimelineEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return models.TimelineEntry{}, models.ErrNotFound
	}
	return f.withCentury(e), nil
}

func (f *fakeRepo) CreateEntry(_ context.Context, e models.TimelineEntry) (models.TimelineEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if _, ok := f.centuries[e.CenturyID]; !ok {
		return models.TimelineEntry{}, models.ErrInvalidInput
	}
	e.ID = f.id()
	f.entries[e.ID] = e
	return f.withCentury(e), nil
}

func (f *fakeRepo) UpdateEntry(_ context.Context, id int64, e models.TimelineEntry) (models.TimelineEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if _, ok := f.entries[id]; !ok {
		return models.TimelineEntry{}, models.ErrNotFound
	}
	if _, ok := f.centuries[e.CenturyID]; !ok {
		return models.TimelineEntry{}, models.ErrInvalidInput
	}
	e.ID = id
	f.entries[id] = e
	return f.withCentury(e), nil
}

func (f *fakeRepo) DeleteEntry(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if _, ok := f.entries[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeRepo) Timeline(context.Context) ([]models.TimelineSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cs := make([]models.TimelineCentury, 0, len(f.centuries))
	for _, c := range f.centuries {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].Century < cs[j].Century })

	out := []models.TimelineSection{}
	for _, c := range cs {
		sec := models.TimelineSection{Century: c.Century, Martyrs: []models.TimelineMartyr{}}
		ids := []int64{}
		for id, e := range f.entries {
			if e.CenturyID == c.ID {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			e := f.entries[id]
			sec.Martyrs = append(sec.Martyrs, models.TimelineMartyr{Name: e.Name, Year: e.Year, Description: e.Description})
		}
		out = append(out, sec)
	}
	return out, nil
}

func (f *fakeRepo) ResetArchive(context.Context) error {
	return errors.New("not supported")
}

func (f *fakeRepo) PingContext(context.Context) error { return nil }
