package gallery

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"photos-cli/internal/metrics"
	"photos-cli/internal/model"
	"photos-cli/internal/selection"
	"photos-cli/internal/tagging"
)

type fakeBackend struct {
	folders  map[string]model.FolderPayload
	baseline map[model.PersonID][]string
	search   map[model.PersonID][]string

	saved     [][]model.TagAssignment
	saveErr   error
	deleted   [][]string
	deleteRes model.DeleteResult
	tags      []model.RawTag
	removed   []string
	updated   []string
	nextID    model.PersonID
	details   []model.FolderDetails
}

func (f *fakeBackend) Folder(_ context.Context, link string) (model.FolderPayload, error) {
	p, ok := f.folders[link]
	if !ok {
		return model.FolderPayload{}, errors.New("not found")
	}
	return p, nil
}

func (f *fakeBackend) Baseline(context.Context, model.FolderID) (map[model.PersonID][]string, error) {
	return f.baseline, nil
}

func (f *fakeBackend) SearchTag(_ context.Context, _ model.FolderID, p model.PersonID) ([]string, error) {
	return f.search[p], nil
}

func (f *fakeBackend) SaveAssignments(_ context.Context, batch []model.TagAssignment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, batch)
	return nil
}

func (f *fakeBackend) AddPerson(_ context.Context, name string) (model.Person, error) {
	f.nextID++
	return model.Person{ID: f.nextID, Name: name}, nil
}

func (f *fakeBackend) DeleteImages(_ context.Context, paths []string) (model.DeleteResult, error) {
	f.deleted = append(f.deleted, paths)
	return f.deleteRes, nil
}

func (f *fakeBackend) RemoveFolder(_ context.Context, link string) error {
	f.removed = append(f.removed, link)
	return nil
}

func (f *fakeBackend) UpdateFolder(_ context.Context, link string) error {
	f.updated = append(f.updated, link)
	return nil
}

func (f *fakeBackend) UpdateExif(_ context.Context, link string) error {
	f.updated = append(f.updated, link)
	return nil
}

func (f *fakeBackend) SaveFolderTag(_ context.Context, _ string, tag model.RawTag) error {
	f.tags = append(f.tags, tag)
	return nil
}

func (f *fakeBackend) EditDetails(_ context.Context, d model.FolderDetails) error {
	f.details = append(f.details, d)
	return nil
}

func (f *fakeBackend) Resolve(link string) string { return "http://host" + link }

func raw(folder, name, date string) model.RawImage {
	d, _ := time.Parse("2006-01-02", date)
	return model.RawImage{
		Name:          name,
		ImageLink:     "/image/" + folder + name,
		ThumbnailLink: "/thumb/" + folder + name,
		HdLink:        "/imagehd/" + folder + name,
		Date:          d,
	}
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		nextID: 10,
		folders: map[string]model.FolderPayload{
			"/browserf/trip": {
				ID:              7,
				FolderPath:      "trip",
				UpdateURL:       "/photo/folder/update?folder=trip",
				UpdateExifURL:   "/photo/folder/exif?folder=trip",
				RemoveFolderURL: "/removeFolder?folder=trip",
				Tags:            []model.RawTag{{Value: "sea", Color: "blue"}, {Value: "family", Color: "#ff0000"}},
				Files: []model.RawImage{
					raw("trip/", "c.jpg", "2021-03-01"),
					raw("trip/", "a.jpg", "2021-01-01"),
					{Name: "broken.jpg", HdLink: "/imagehd/trip/broken.jpg"},
					raw("trip/", "b.jpg", "2021-02-01"),
				},
			},
			"/browserf/vacation": {
				ID: 8,
				Files: []model.RawImage{
					raw("vacation/day1/", "a.jpg", "2021-01-01"),
					raw("vacation/day1/", "b.jpg", "2021-06-01"),
					raw("vacation/day2/", "c.jpg", "2022-03-01"),
				},
			},
			"/browserf/empty": {ID: 9, RemoveFolderURL: "/removeFolder?folder=empty"},
		},
		baseline: map[model.PersonID][]string{1: {"b.jpg"}},
		search:   map[model.PersonID][]string{1: {"b.jpg", "c.jpg"}},
	}
}

func newController(t *testing.T, b *fakeBackend) (*Controller, *metrics.Metrics) {
	m := metrics.New()
	c := New(b, Options{Logger: zaptest.NewLogger(t), Metrics: m, CanAdmin: true})
	c.SetPeople([]model.Person{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bob"}})
	return c, m
}

func load(t *testing.T, c *Controller, key string) {
	t.Helper()
	if err := c.Load(context.Background(), model.LoadRequest{Key: key, TagsURL: key + "/tags", Path: "trip"}); err != nil {
		t.Fatalf("load %s: %v", key, err)
	}
}

func names(items []model.MediaItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestLoad_SingleFolder(t *testing.T) {
	c, _ := newController(t, newBackend())
	load(t, c, "/browserf/trip")
	s := c.State()

	if got, want := names(s.Images), []string{"a.jpg", "b.jpg", "c.jpg"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("images %v, want %v (link-less entry dropped, date ascending)", got, want)
	}
	if s.ShowTimeline || s.Timeline != nil {
		t.Fatalf("single folder must not enable the timeline")
	}
	if s.Folder.ID != 7 || s.Tagging.FolderID != 7 {
		t.Fatalf("unexpected folder id %d", s.Folder.ID)
	}
	if s.Images[0].FolderKey != "trip/" || s.Images[0].ImageURL != "http://host/image/trip/a.jpg" {
		t.Fatalf("unexpected adapted item %+v", s.Images[0])
	}
	if s.Folder.Tags[0].Value != "family" || s.Folder.Tags[1].Value != "sea" {
		t.Fatalf("expected tags sorted by value, got %+v", s.Folder.Tags)
	}
	if !reflect.DeepEqual(s.Tagging.OriginalPaths, map[model.PersonID][]string{1: {"b.jpg"}}) {
		t.Fatalf("expected baseline loaded with folder, got %v", s.Tagging.OriginalPaths)
	}
	if len(s.Tagging.People) != 2 {
		t.Fatalf("people catalog lost on load")
	}
}

func TestLoad_MultiFolderTimeline(t *testing.T) {
	c, _ := newController(t, newBackend())
	load(t, c, "/browserf/vacation")
	s := c.State()
	if !s.ShowTimeline || s.Timeline == nil {
		t.Fatalf("expected timeline for multi-folder payload")
	}
	if len(s.Images) != 0 {
		t.Fatalf("expected no image before a group is chosen, got %v", names(s.Images))
	}
	if s.Timeline.Groups[0].Label != "day2" {
		t.Fatalf("expected most recent group first, got %q", s.Timeline.Groups[0].Label)
	}

	if err := c.SelectGroup(1); err != nil {
		t.Fatalf("SelectGroup: %v", err)
	}
	s = c.State()
	if got := names(s.Images); !reflect.DeepEqual(got, []string{"a.jpg", "b.jpg"}) {
		t.Fatalf("unexpected group images %v", got)
	}
	if !reflect.DeepEqual(names(s.Tagging.AllImages), names(s.Images)) {
		t.Fatalf("tagging AllImages must follow the selected group")
	}
	if len(s.OriginalImages) != 3 {
		t.Fatalf("original images must stay intact")
	}
}

func TestMultiFolder_NoImagesUntilGroupChosen(t *testing.T) {
	c, _ := newController(t, newBackend())
	load(t, c, "/browserf/vacation")

	if _, _, err := c.SetMode(selection.KindTagAssign); err != nil {
		t.Fatalf("SetMode tag: %v", err)
	}
	if got := names(c.State().Images); len(got) != 0 {
		t.Fatalf("tag mode without a group must show no image, got %v", got)
	}
	_ = c.SelectPerson(model.Person{ID: 1, Name: "Ann"})
	c.Select(0)
	if c.State().Tagging.HasPending() {
		t.Fatalf("no delta may be recorded before a group is chosen")
	}
	if _, _, err := c.SetMode(selection.KindBrowse); err != nil {
		t.Fatalf("SetMode browse: %v", err)
	}
	if got := names(c.State().Images); len(got) != 0 {
		t.Fatalf("browse mode without a group must show no image, got %v", got)
	}

	_ = c.ToggleFilter()
	_ = c.ToggleFilter()
	if got := names(c.State().Images); len(got) != 0 {
		t.Fatalf("turning the filter off must not fill the grid, got %v", got)
	}

	if err := c.SelectGroup(0); err != nil {
		t.Fatalf("SelectGroup: %v", err)
	}
	if got := names(c.State().Images); !reflect.DeepEqual(got, []string{"c.jpg"}) {
		t.Fatalf("unexpected group images %v", got)
	}
}

func TestStaleFolderResponseDropped(t *testing.T) {
	b := newBackend()
	c, m := newController(t, b)

	first := c.Open(model.LoadRequest{Key: "/browserf/trip"})
	firstRes := c.Fetch(context.Background(), first, model.LoadRequest{Key: "/browserf/trip"})
	second := c.Open(model.LoadRequest{Key: "/browserf/vacation"})
	secondRes := c.Fetch(context.Background(), second, model.LoadRequest{Key: "/browserf/vacation"})

	if err := c.ApplyFolder(secondRes); err != nil {
		t.Fatalf("apply current: %v", err)
	}
	if err := c.ApplyFolder(firstRes); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale for superseded load, got %v", err)
	}
	if c.State().Folder.ID != 8 {
		t.Fatalf("stale response overwrote state: folder %d", c.State().Folder.ID)
	}
	samples, _ := m.Snapshot()
	found := false
	for _, s := range samples {
		if s.Name == "photos_stale_responses_total" && s.Labels["kind"] == "folder" && s.Value == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected stale counter, got %+v", samples)
	}
}

func TestTagMode_EndToEnd(t *testing.T) {
	b := newBackend()
	c, _ := newController(t, b)
	load(t, c, "/browserf/trip")

	ticket, fetch, err := c.SetMode(selection.KindTagAssign)
	if err != nil || !fetch {
		t.Fatalf("SetMode: fetch=%v err=%v", fetch, err)
	}
	if err := c.ApplyBaseline(c.FetchBaseline(context.Background(), ticket, c.FolderID())); err != nil {
		t.Fatalf("ApplyBaseline: %v", err)
	}
	if c.Mode().ShowFullMenu() {
		t.Fatalf("tag mode must hide the full menu")
	}
	if err := c.SelectPerson(model.Person{ID: 1, Name: "Ann"}); err != nil {
		t.Fatalf("SelectPerson: %v", err)
	}
	if s := c.State(); !s.Images[1].Selected || s.Images[0].Selected {
		t.Fatalf("unexpected overlay %+v", s.Images)
	}

	c.Select(0) // a.jpg: add
	c.Select(1) // b.jpg: remove from baseline
	if err := c.SaveNow(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	want := []model.TagAssignment{{Tag: 1, Folder: 7, Paths: []string{"a.jpg"}, Deleted: []string{"b.jpg"}}}
	if len(b.saved) != 1 || !reflect.DeepEqual(b.saved[0], want) {
		t.Fatalf("saved %+v, want %+v", b.saved, want)
	}
	s := c.State()
	if s.Tagging.HasPending() {
		t.Fatalf("expected diff cleared after save")
	}
	if !reflect.DeepEqual(s.Tagging.OriginalPaths[1], []string{"a.jpg"}) {
		t.Fatalf("expected merged baseline [a.jpg], got %v", s.Tagging.OriginalPaths[1])
	}
	if !s.Images[0].Selected || s.Images[1].Selected {
		t.Fatalf("overlay after save mismatched: %+v", s.Images)
	}
}

func TestTagMode_FailedSaveKeepsDiff(t *testing.T) {
	b := newBackend()
	b.saveErr = errors.New("offline")
	c, _ := newController(t, b)
	load(t, c, "/browserf/trip")
	if _, _, err := c.SetMode(selection.KindTagAssign); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	_ = c.SelectPerson(model.Person{ID: 2})
	c.Select(2)
	before := c.State().Tagging

	if err := c.SaveNow(context.Background()); err == nil {
		t.Fatalf("expected save error")
	}
	s := c.State()
	if !reflect.DeepEqual(s.Tagging.Paths, before.Paths) || s.Saving {
		t.Fatalf("failed save must keep the diff, got %+v", s.Tagging.Paths)
	}
}

func TestTagMode_SaveKeepsLiveContext(t *testing.T) {
	b := newBackend()
	c, _ := newController(t, b)
	load(t, c, "/browserf/trip")
	baseline, _, err := c.SetMode(selection.KindTagAssign)
	if err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	_ = c.SelectPerson(model.Person{ID: 1, Name: "Ann"})
	c.Select(0) // a.jpg

	ticket, snap, err := c.BeginSave()
	if err != nil {
		t.Fatalf("BeginSave: %v", err)
	}
	res := c.Save(context.Background(), ticket, snap)

	// Changes made while the request is in flight.
	if err := c.SelectPerson(model.Person{ID: 2, Name: "Bob"}); err != nil {
		t.Fatalf("SelectPerson: %v", err)
	}
	b.baseline = map[model.PersonID][]string{1: {"b.jpg"}, 2: {"c.jpg"}}
	if err := c.ApplyBaseline(c.FetchBaseline(context.Background(), baseline, 7)); err != nil {
		t.Fatalf("ApplyBaseline: %v", err)
	}

	if err := c.ApplySave(res); err != nil {
		t.Fatalf("ApplySave: %v", err)
	}
	s := c.State()
	if s.Tagging.CurrentTag == nil || s.Tagging.CurrentTag.Name != "Bob" {
		t.Fatalf("current tag after save = %+v, want Bob", s.Tagging.CurrentTag)
	}
	if !reflect.DeepEqual(s.Tagging.OriginalPaths[2], []string{"c.jpg"}) {
		t.Fatalf("baseline received during save was lost: %v", s.Tagging.OriginalPaths)
	}
	if !reflect.DeepEqual(s.Tagging.OriginalPaths[1], []string{"b.jpg", "a.jpg"}) {
		t.Fatalf("saved delta not merged into live baseline: %v", s.Tagging.OriginalPaths[1])
	}
	if s.Tagging.HasPending() {
		t.Fatalf("saved deltas must be cleared, got %+v", s.Tagging.Paths)
	}
	if !s.Images[2].Selected || s.Images[0].Selected {
		t.Fatalf("overlay must follow Bob after save: %+v", s.Images)
	}
}

func TestLeavingTagModeDiscardsDiff(t *testing.T) {
	c, _ := newController(t, newBackend())
	load(t, c, "/browserf/trip")
	_, _, _ = c.SetMode(selection.KindTagAssign)
	_ = c.SelectPerson(model.Person{ID: 2})
	c.Select(0)
	if !c.State().Tagging.HasPending() {
		t.Fatalf("expected a pending delta")
	}
	if _, _, err := c.SetMode(selection.KindBrowse); err != nil {
		t.Fatalf("SetMode browse: %v", err)
	}
	s := c.State()
	if s.Tagging.HasPending() || s.Tagging.CurrentTag != nil {
		t.Fatalf("expected reset tagging context")
	}
	for _, img := range s.Images {
		if img.Selected {
			t.Fatalf("expected cleared selection")
		}
	}
}

func TestTagModeRequiresAdminAndFolder(t *testing.T) {
	c, _ := newController(t, newBackend())
	if _, _, err := c.SetMode(selection.KindTagAssign); !errors.Is(err, ErrNoFolder) {
		t.Fatalf("expected ErrNoFolder, got %v", err)
	}
	load(t, c, "/browserf/trip")
	c.SetCanAdmin(false)
	if _, _, err := c.SetMode(selection.KindTagAssign); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}

func TestStaleBaselineDropped(t *testing.T) {
	c, _ := newController(t, newBackend())
	load(t, c, "/browserf/trip")
	first, _, _ := c.SetMode(selection.KindTagAssign)
	_, _, _ = c.SetMode(selection.KindBrowse)
	second, _, _ := c.SetMode(selection.KindTagAssign)

	old := BaselineResult{Ticket: first, Baseline: map[model.PersonID][]string{2: {"x.jpg"}}}
	if err := c.ApplyBaseline(old); !errors.Is(err, ErrStale) {
		t.Fatalf("expected stale baseline, got %v", err)
	}
	if err := c.ApplyBaseline(c.FetchBaseline(context.Background(), second, 7)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := c.State().Tagging.OriginalPaths[2]; ok {
		t.Fatalf("stale baseline leaked into state")
	}
}

func TestFilterMode(t *testing.T) {
	c, _ := newController(t, newBackend())
	load(t, c, "/browserf/trip")

	if _, _, err := c.FilterByPerson(1); !errors.Is(err, ErrFilterDisabled) {
		t.Fatalf("expected ErrFilterDisabled, got %v", err)
	}
	if err := c.ToggleFilter(); err != nil {
		t.Fatalf("ToggleFilter: %v", err)
	}
	ticket, fetch, err := c.FilterByPerson(1)
	if err != nil || !fetch {
		t.Fatalf("FilterByPerson: %v %v", fetch, err)
	}
	if err := c.ApplySearch(c.Search(context.Background(), ticket, 7, 1)); err != nil {
		t.Fatalf("ApplySearch: %v", err)
	}
	if got := names(c.State().Images); !reflect.DeepEqual(got, []string{"b.jpg", "c.jpg"}) {
		t.Fatalf("filtered images %v", got)
	}

	// Same person again restores everything without a request.
	if _, fetch, _ := c.FilterByPerson(1); fetch {
		t.Fatalf("expected no fetch when clearing the filter")
	}
	if got := names(c.State().Images); len(got) != 3 {
		t.Fatalf("expected all images back, got %v", got)
	}

	// A response for a superseded person is dropped.
	t1, _, _ := c.FilterByPerson(1)
	t2, _, _ := c.FilterByPerson(2)
	if err := c.ApplySearch(c.Search(context.Background(), t1, 7, 1)); !errors.Is(err, ErrStale) {
		t.Fatalf("expected stale search, got %v", err)
	}
	if err := c.ApplySearch(c.Search(context.Background(), t2, 7, 2)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(c.State().Images) != 0 {
		t.Fatalf("expected no image for person 2")
	}

	if err := c.ToggleFilter(); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	s := c.State()
	if s.FilterEnabled || len(s.Images) != 3 || s.Tagging.FilterTag != nil {
		t.Fatalf("expected filter off with all images, got %+v", s)
	}
}

func TestEnteringTagModeDisablesFilter(t *testing.T) {
	c, _ := newController(t, newBackend())
	load(t, c, "/browserf/trip")
	_ = c.ToggleFilter()
	ticket, _, _ := c.FilterByPerson(1)
	_, _, _ = c.SetMode(selection.KindTagAssign)
	if c.State().FilterEnabled {
		t.Fatalf("expected filter disabled in tag mode")
	}
	if err := c.ApplySearch(c.Search(context.Background(), ticket, 7, 1)); !errors.Is(err, ErrStale) {
		t.Fatalf("expected in-flight search dropped, got %v", err)
	}
	if len(c.State().Images) != 3 {
		t.Fatalf("tag mode must show every image")
	}
}

func TestDeleteSelection(t *testing.T) {
	b := newBackend()
	c, _ := newController(t, b)
	load(t, c, "/browserf/trip")

	if _, _, err := c.BeginDelete(); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	c.Select(0)
	c.Select(2)
	ticket, paths, err := c.BeginDelete()
	if err != nil {
		t.Fatalf("BeginDelete: %v", err)
	}

	b.deleteRes = model.DeleteResult{Success: 1, Errors: 1}
	var partial *PartialDeleteError
	if err := c.ApplyDelete(c.Delete(context.Background(), ticket, paths)); !errors.As(err, &partial) {
		t.Fatalf("expected partial delete error, got %v", err)
	}
	if len(c.State().Images) != 3 {
		t.Fatalf("partial failure must not remove images locally")
	}

	b.deleteRes = model.DeleteResult{Success: 2}
	if err := c.ApplyDelete(c.Delete(context.Background(), ticket, paths)); err != nil {
		t.Fatalf("ApplyDelete: %v", err)
	}
	s := c.State()
	if got := names(s.Images); !reflect.DeepEqual(got, []string{"b.jpg"}) {
		t.Fatalf("remaining %v", got)
	}
	if len(s.OriginalImages) != 1 || len(s.Tagging.AllImages) != 1 {
		t.Fatalf("deleted images must leave every image set")
	}
	if !reflect.DeepEqual(b.deleted[0], []string{"/imagehd/trip/a.jpg", "/imagehd/trip/c.jpg"}) {
		t.Fatalf("unexpected delete request %v", b.deleted[0])
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	c, _ := newController(t, newBackend())
	load(t, c, "/browserf/trip")
	c.SetCanAdmin(false)
	c.Select(0)
	if _, _, err := c.BeginDelete(); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}

func TestFolderActions(t *testing.T) {
	b := newBackend()
	c, _ := newController(t, b)
	load(t, c, "/browserf/trip")

	if _, _, err := c.BeginAction(ActionRemoveFolder); !errors.Is(err, ErrFolderNotEmpty) {
		t.Fatalf("expected ErrFolderNotEmpty, got %v", err)
	}
	ticket, link, err := c.BeginAction(ActionUpdateExif)
	if err != nil {
		t.Fatalf("BeginAction: %v", err)
	}
	reload, err := c.ApplyAction(c.RunAction(context.Background(), ticket, ActionUpdateExif, link))
	if err != nil || !reload {
		t.Fatalf("expected reload after exif update, got %v %v", reload, err)
	}

	load(t, c, "/browserf/empty")
	ticket, link, err = c.BeginAction(ActionRemoveFolder)
	if err != nil {
		t.Fatalf("BeginAction remove: %v", err)
	}
	if _, err := c.ApplyAction(c.RunAction(context.Background(), ticket, ActionRemoveFolder, link)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if c.State().Open() {
		t.Fatalf("expected folder closed after removal")
	}
	if !reflect.DeepEqual(b.removed, []string{"/removeFolder?folder=empty"}) {
		t.Fatalf("unexpected removals %v", b.removed)
	}
}

func TestFolderTags(t *testing.T) {
	b := newBackend()
	c, _ := newController(t, b)
	load(t, c, "/browserf/trip")

	var verr tagging.ValidationError
	if _, _, _, err := c.BeginAddTag("  ", ""); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, _, _, err := c.BeginAddTag("sea", ""); !errors.Is(err, ErrDuplicateTag) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	ticket, url, tag, err := c.BeginAddTag("beach", "")
	if err != nil {
		t.Fatalf("BeginAddTag: %v", err)
	}
	if url != "/browserf/trip/tags" || tag.Color != model.DefaultTagColor.String() {
		t.Fatalf("unexpected tag request %s %+v", url, tag)
	}
	if len(c.State().Folder.Tags) != 2 {
		t.Fatalf("tag must not be added before acknowledgement")
	}
	if err := c.ApplyTag(c.SaveTag(context.Background(), ticket, url, tag)); err != nil {
		t.Fatalf("ApplyTag: %v", err)
	}
	if got := c.State().Folder.Tags; len(got) != 3 || got[0].Value != "beach" {
		t.Fatalf("unexpected tags %+v", got)
	}

	ticket, url, tag, err = c.BeginRecolorTag("sea", "#00ff00")
	if err != nil {
		t.Fatalf("BeginRecolorTag: %v", err)
	}
	_ = c.ApplyTag(c.SaveTag(context.Background(), ticket, url, tag))
	for _, tg := range c.State().Folder.Tags {
		if tg.Value == "sea" && tg.Color.String() != "#00ff00" {
			t.Fatalf("expected recolored tag, got %s", tg.Color)
		}
	}

	ticket, url, tag, err = c.BeginRemoveTag("family")
	if err != nil || !tag.ToRemove {
		t.Fatalf("BeginRemoveTag: %+v %v", tag, err)
	}
	_ = c.ApplyTag(c.SaveTag(context.Background(), ticket, url, tag))
	if got := c.State().Folder.Tags; len(got) != 2 {
		t.Fatalf("expected tag removed, got %+v", got)
	}
}

func TestAddPerson(t *testing.T) {
	c, _ := newController(t, newBackend())
	res := c.AddPerson(context.Background(), " ")
	var verr tagging.ValidationError
	if !errors.As(res.Err, &verr) {
		t.Fatalf("expected validation error, got %v", res.Err)
	}
	if err := c.ApplyPerson(res); err == nil {
		t.Fatalf("expected error to propagate")
	}
	if len(c.State().Tagging.People) != 2 {
		t.Fatalf("failed add must not change the catalog")
	}
	if err := c.ApplyPerson(c.AddPerson(context.Background(), "Cy")); err != nil {
		t.Fatalf("ApplyPerson: %v", err)
	}
	if p, ok := c.State().Tagging.FindPerson(11); !ok || p.Name != "Cy" {
		t.Fatalf("expected Cy with server id, got %+v", c.State().Tagging.People)
	}
}

func TestEditDetails(t *testing.T) {
	b := newBackend()
	c, _ := newController(t, b)
	load(t, c, "/browserf/trip")
	ticket, d, err := c.BeginEditDetails(" Summer ", "by the sea")
	if err != nil {
		t.Fatalf("BeginEditDetails: %v", err)
	}
	if err := c.ApplyDetails(c.EditDetails(context.Background(), ticket, d)); err != nil {
		t.Fatalf("ApplyDetails: %v", err)
	}
	s := c.State()
	if s.Folder.Title != "Summer" || s.Folder.Description != "by the sea" {
		t.Fatalf("unexpected folder %+v", s.Folder)
	}
	if b.details[0].Path != "trip" {
		t.Fatalf("expected details posted for the tree path, got %+v", b.details[0])
	}
}

func TestLoadError(t *testing.T) {
	c, _ := newController(t, newBackend())
	err := c.Load(context.Background(), model.LoadRequest{Key: "/browserf/missing"})
	if err == nil {
		t.Fatalf("expected error")
	}
	s := c.State()
	if s.Loading || s.LoadErr == nil || len(s.Images) != 0 {
		t.Fatalf("unexpected state after failed load: %+v", s)
	}
}
