// Package gallery owns the open folder: its images, timeline, selection mode and
// tagging context. Every network call is split in three steps so that the caller can
// run the I/O off the UI loop: a Begin/Open step that validates and issues a
// Ticket, an I/O step that only reads the backend, and an Apply step that drops
// results whose ticket has been superseded.
package gallery

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"photos-cli/internal/logging"
	"photos-cli/internal/metrics"
	"photos-cli/internal/model"
	"photos-cli/internal/selection"
	"photos-cli/internal/tagging"
	"photos-cli/internal/timeline"
)

type Backend interface {
	Folder(ctx context.Context, link string) (model.FolderPayload, error)
	Baseline(ctx context.Context, folder model.FolderID) (map[model.PersonID][]string, error)
	SearchTag(ctx context.Context, folder model.FolderID, person model.PersonID) ([]string, error)
	SaveAssignments(ctx context.Context, batch []model.TagAssignment) error
	AddPerson(ctx context.Context, name string) (model.Person, error)
	DeleteImages(ctx context.Context, paths []string) (model.DeleteResult, error)
	RemoveFolder(ctx context.Context, link string) error
	UpdateFolder(ctx context.Context, link string) error
	UpdateExif(ctx context.Context, link string) error
	SaveFolderTag(ctx context.Context, tagsURL string, tag model.RawTag) error
	EditDetails(ctx context.Context, details model.FolderDetails) error
	Resolve(link string) string
}

// Ticket identifies one request. Gen is the folder generation; Seq orders requests
// within a folder.
type Ticket struct {
	Gen uint64
	Seq uint64
}

type State struct {
	Generation     uint64
	Request        model.LoadRequest
	Folder         model.FolderInfo
	OriginalImages []model.MediaItem
	Images         []model.MediaItem
	Timeline       *timeline.Timeline
	ShowTimeline   bool
	Mode           selection.Kind
	Tagging        tagging.Context
	FilterEnabled  bool
	CanAdmin       bool
	Loading        bool
	Saving         bool
	LoadErr        error
}

// Open reports whether a folder has been requested.
func (s State) Open() bool { return !s.Request.Empty() }

type Options struct {
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	CharWidth int
	CanAdmin  bool
}

type Controller struct {
	backend   Backend
	log       *zap.Logger
	metrics   *metrics.Metrics
	charWidth int

	state State
	seq   uint64

	pendingBaseline uint64
	pendingSearch   uint64
}

func New(b Backend, opts Options) *Controller {
	return &Controller{
		backend:   b,
		log:       logging.OrNop(opts.Logger),
		metrics:   opts.Metrics,
		charWidth: opts.CharWidth,
		state:     State{CanAdmin: opts.CanAdmin},
	}
}

// State returns a snapshot. Slices in it are never modified in place by the controller.
func (c *Controller) State() State { return c.state }

func (c *Controller) Mode() selection.Mode { return selection.For(c.state.Mode) }

func (c *Controller) SetCanAdmin(v bool) { c.state.CanAdmin = v }

// SetPeople replaces the people catalog.
func (c *Controller) SetPeople(people []model.Person) {
	next := c.state.Tagging.Clone()
	next.People = append([]model.Person(nil), people...)
	c.state.Tagging = next
}

func (c *Controller) next() Ticket {
	c.seq++
	return Ticket{Gen: c.state.Generation, Seq: c.seq}
}

func (c *Controller) stale(kind string, t Ticket) bool {
	if t.Gen == c.state.Generation {
		return false
	}
	c.dropped(kind, t)
	return true
}

// staleSeq also requires t to be the latest request of its kind.
func (c *Controller) staleSeq(kind string, t Ticket, pending uint64) bool {
	if pending != 0 && t.Seq == pending && t.Gen == c.state.Generation {
		return false
	}
	c.dropped(kind, t)
	return true
}

func (c *Controller) dropped(kind string, t Ticket) {
	c.metrics.RecordStale(kind)
	c.log.Debug("dropping stale response",
		zap.String("kind", kind),
		zap.Uint64("gen", t.Gen),
		zap.Uint64("seq", t.Seq),
		zap.Uint64("current_gen", c.state.Generation),
	)
}

// Open starts loading a folder. Any state of the previous folder is discarded,
// including uncommitted tagging deltas.
func (c *Controller) Open(req model.LoadRequest) Ticket {
	people := c.state.Tagging.People
	c.state = State{
		Generation: c.state.Generation + 1,
		Request:    req,
		CanAdmin:   c.state.CanAdmin,
		Loading:    !req.Empty(),
		Tagging:    tagging.Context{People: people},
	}
	c.pendingBaseline = 0
	c.pendingSearch = 0
	return c.next()
}

type FolderResult struct {
	Ticket      Ticket
	Request     model.LoadRequest
	Payload     model.FolderPayload
	Baseline    map[model.PersonID][]string
	BaselineErr error
	Err         error
}

// Fetch loads the folder payload and its tagging baseline.
func (c *Controller) Fetch(ctx context.Context, t Ticket, req model.LoadRequest) FolderResult {
	res := FolderResult{Ticket: t, Request: req}
	res.Payload, res.Err = c.backend.Folder(ctx, req.Key)
	if res.Err != nil || res.Payload.ID == 0 {
		return res
	}
	res.Baseline, res.BaselineErr = c.backend.Baseline(ctx, model.FolderID(res.Payload.ID))
	return res
}

// ApplyFolder installs a loaded folder. A multi-folder payload enables the timeline
// and shows no image until a group is chosen.
func (c *Controller) ApplyFolder(res FolderResult) error {
	if c.stale("folder", res.Ticket) {
		return ErrStale
	}
	c.state.Loading = false
	if res.Err != nil {
		c.state.LoadErr = res.Err
		c.log.Warn("folder load failed", zap.String("key", res.Request.Key), zap.Error(res.Err))
		return res.Err
	}
	if res.BaselineErr != nil {
		c.log.Warn("tag baseline load failed", zap.Int("folder", res.Payload.ID), zap.Error(res.BaselineErr))
	}

	info := res.Payload.Info()
	info.Tags = SortedTags(info.Tags)
	if info.Title == "" {
		info.Title = res.Request.Title
	}
	images := AdaptImages(c.backend.Resolve, res.Payload.Files)
	multi := IsMultiFolder(res.Payload.Files)

	ctx := tagging.Context{
		FolderID:  info.ID,
		AllImages: images,
		People:    c.state.Tagging.People,
	}
	if multi {
		// set by SelectGroup
		ctx.AllImages = nil
	}
	ctx = tagging.WithBaseline(ctx, res.Baseline)

	c.state.Folder = info
	c.state.OriginalImages = images
	c.state.Tagging = ctx
	c.state.ShowTimeline = multi
	c.state.Timeline = nil
	c.state.Images = images
	if multi {
		c.state.Timeline = timeline.New(images, c.timelineOptions())
		c.state.Images = []model.MediaItem{}
	}
	c.log.Info("folder loaded",
		zap.String("key", res.Request.Key),
		zap.Int("folder", int(info.ID)),
		zap.Int("images", len(images)),
		zap.Bool("timeline", multi),
	)
	return nil
}

func (c *Controller) timelineOptions() timeline.Options {
	opts := timeline.Options{CharWidth: c.charWidth}
	if c.state.Folder.Title != "" && c.state.Folder.Path != "" {
		opts.Titles = map[string]string{model.FolderKey(c.state.Folder.Path): c.state.Folder.Title}
	}
	return opts
}

// Load opens a folder and waits for it.
func (c *Controller) Load(ctx context.Context, req model.LoadRequest) error {
	t := c.Open(req)
	return c.ApplyFolder(c.Fetch(ctx, t, req))
}

// Select applies the current mode to the image at index.
func (c *Controller) Select(index int) {
	if c.state.Saving && c.state.Mode == selection.KindTagAssign {
		return
	}
	s := c.Mode().Select(selection.State{Images: c.state.Images, Tagging: c.state.Tagging}, index)
	c.state.Images = s.Images
	c.state.Tagging = s.Tagging
}

// SelectGroup shows one timeline group. Pending tagging deltas refer to positions in
// the previous image set and are discarded.
func (c *Controller) SelectGroup(i int) error {
	if !c.state.ShowTimeline || c.state.Timeline == nil {
		return ErrNoTimeline
	}
	if c.state.Saving {
		return ErrBusy
	}
	items, ok := c.state.Timeline.Select(i)
	if !ok {
		return ErrNoTimeline
	}
	next := c.state.Tagging.Clone()
	next.AllImages = items
	next.Paths = nil
	next.FilterTag = nil
	c.pendingSearch = 0
	c.state.Images = clearSelected(items)
	if c.state.Mode == selection.KindTagAssign && next.CurrentTag != nil {
		next, c.state.Images = tagging.SelectPerson(next, *next.CurrentTag)
	}
	c.state.Tagging = next
	return nil
}

// ScrollTimeline moves the scrubber and reports whether it moved.
func (c *Controller) ScrollTimeline(forward bool, visibleWidth int) bool {
	if c.state.Timeline == nil {
		return false
	}
	if forward {
		return c.state.Timeline.Advance(visibleWidth)
	}
	return c.state.Timeline.Retreat()
}

// SetMode switches the selection mode. Entering TagAssign turns filter mode off and
// returns a ticket for reloading the baseline; leaving it discards uncommitted deltas.
func (c *Controller) SetMode(kind selection.Kind) (Ticket, bool, error) {
	if kind == c.state.Mode {
		return Ticket{}, false, nil
	}
	if kind == selection.KindTagAssign {
		if !c.state.Open() || c.state.Loading {
			return Ticket{}, false, ErrNoFolder
		}
		if !c.state.CanAdmin {
			return Ticket{}, false, ErrNotAdmin
		}
	}
	if c.state.Saving {
		return Ticket{}, false, ErrBusy
	}

	s := c.Mode().Reset(selection.State{Images: c.state.Images, Tagging: c.state.Tagging})
	c.state.Tagging = s.Tagging
	c.state.Images = clearSelected(c.state.Tagging.AllImages)
	c.state.Mode = kind
	c.log.Debug("selection mode changed", zap.Stringer("mode", kind))

	if kind != selection.KindTagAssign {
		c.pendingBaseline = 0
		return Ticket{}, false, nil
	}
	c.disableFilter()
	t := c.next()
	c.pendingBaseline = t.Seq
	return t, true, nil
}

type BaselineResult struct {
	Ticket   Ticket
	Baseline map[model.PersonID][]string
	Err      error
}

func (c *Controller) FetchBaseline(ctx context.Context, t Ticket, folder model.FolderID) BaselineResult {
	b, err := c.backend.Baseline(ctx, folder)
	return BaselineResult{Ticket: t, Baseline: b, Err: err}
}

func (c *Controller) ApplyBaseline(res BaselineResult) error {
	if c.staleSeq("baseline", res.Ticket, c.pendingBaseline) {
		return ErrStale
	}
	c.pendingBaseline = 0
	if res.Err != nil {
		return res.Err
	}
	c.state.Tagging = tagging.WithBaseline(c.state.Tagging, res.Baseline)
	if cur := c.state.Tagging.CurrentTag; cur != nil && c.state.Mode == selection.KindTagAssign {
		c.state.Tagging, c.state.Images = tagging.SelectPerson(c.state.Tagging, *cur)
	}
	return nil
}

// FolderID is the id of the open folder, valid once it has loaded.
func (c *Controller) FolderID() model.FolderID { return c.state.Folder.ID }

// SelectPerson makes p the person being tagged.
func (c *Controller) SelectPerson(p model.Person) error {
	if c.state.Mode != selection.KindTagAssign {
		return ErrWrongMode
	}
	c.state.Tagging, c.state.Images = tagging.SelectPerson(c.state.Tagging, p)
	return nil
}

// ToggleFilter turns the people filter view on or off. Turning it off restores
// every image of the current set.
func (c *Controller) ToggleFilter() error {
	if c.state.Mode != selection.KindBrowse {
		return ErrWrongMode
	}
	if c.state.FilterEnabled {
		c.disableFilter()
		c.state.Images = c.state.Tagging.AllImages
		return nil
	}
	c.state.FilterEnabled = true
	return nil
}

func (c *Controller) disableFilter() {
	c.state.FilterEnabled = false
	c.pendingSearch = 0
	if c.state.Tagging.FilterTag != nil {
		next := c.state.Tagging.Clone()
		next.FilterTag = nil
		c.state.Tagging = next
	}
}

// FilterByPerson shows only the images where the person is tagged. Choosing the active
// person again restores every image and needs no request.
func (c *Controller) FilterByPerson(id model.PersonID) (Ticket, bool, error) {
	if !c.state.FilterEnabled {
		return Ticket{}, false, ErrFilterDisabled
	}
	next := c.state.Tagging.Clone()
	if next.FilterTag != nil && *next.FilterTag == id {
		next.FilterTag = nil
		c.state.Tagging = next
		c.state.Images = next.AllImages
		c.pendingSearch = 0
		return Ticket{}, false, nil
	}
	next.FilterTag = &id
	c.state.Tagging = next
	t := c.next()
	c.pendingSearch = t.Seq
	return t, true, nil
}

type SearchResult struct {
	Ticket    Ticket
	Person    model.PersonID
	Basenames []string
	Err       error
}

func (c *Controller) Search(ctx context.Context, t Ticket, folder model.FolderID, person model.PersonID) SearchResult {
	names, err := c.backend.SearchTag(ctx, folder, person)
	return SearchResult{Ticket: t, Person: person, Basenames: names, Err: err}
}

func (c *Controller) ApplySearch(res SearchResult) error {
	if c.staleSeq("search", res.Ticket, c.pendingSearch) {
		return ErrStale
	}
	c.pendingSearch = 0
	if res.Err != nil {
		next := c.state.Tagging.Clone()
		next.FilterTag = nil
		c.state.Tagging = next
		return res.Err
	}
	c.state.Images = tagging.FilterImages(c.state.Tagging.AllImages, res.Basenames)
	return nil
}

// BeginSave snapshots the tagging context for submission.
func (c *Controller) BeginSave() (Ticket, tagging.Context, error) {
	if c.state.Mode != selection.KindTagAssign {
		return Ticket{}, tagging.Context{}, ErrWrongMode
	}
	if c.state.Saving {
		return Ticket{}, tagging.Context{}, ErrBusy
	}
	c.state.Saving = true
	return c.next(), c.state.Tagging.Clone(), nil
}

type SaveResult struct {
	Ticket Ticket
	// Saved holds the deltas that were submitted.
	Saved map[model.PersonID][]model.PathAssignment
	Err   error
}

func (c *Controller) Save(ctx context.Context, t Ticket, snapshot tagging.Context) SaveResult {
	_, err := tagging.Save(ctx, snapshot, c.backend)
	return SaveResult{Ticket: t, Saved: snapshot.Clone().Paths, Err: err}
}

// ApplySave merges the submitted deltas into the live baseline. The active person and
// any baseline that arrived during the save are kept. A failed save leaves every
// pending delta in place.
func (c *Controller) ApplySave(res SaveResult) error {
	if c.stale("save", res.Ticket) {
		return ErrStale
	}
	c.state.Saving = false
	if res.Err != nil {
		c.log.Warn("tag save failed", zap.Int("folder", int(c.state.Folder.ID)), zap.Error(res.Err))
		return res.Err
	}
	next := tagging.Commit(c.state.Tagging, res.Saved)
	c.state.Tagging = next
	if cur := next.CurrentTag; cur != nil {
		c.state.Tagging, c.state.Images = tagging.SelectPerson(next, *cur)
	}
	c.log.Info("tags saved", zap.Int("folder", int(c.state.Folder.ID)))
	return nil
}

// SaveNow runs a whole save synchronously.
func (c *Controller) SaveNow(ctx context.Context) error {
	t, snap, err := c.BeginSave()
	if err != nil {
		return err
	}
	return c.ApplySave(c.Save(ctx, t, snap))
}

type PersonResult struct {
	Person model.Person
	Err    error
}

// AddPerson creates a person on the server. The catalog only changes in ApplyPerson.
func (c *Controller) AddPerson(ctx context.Context, name string) PersonResult {
	name = strings.TrimSpace(name)
	if err := tagging.ValidatePersonName(name); err != nil {
		return PersonResult{Err: err}
	}
	p, err := c.backend.AddPerson(ctx, name)
	return PersonResult{Person: p, Err: err}
}

func (c *Controller) ApplyPerson(res PersonResult) error {
	if res.Err != nil {
		return res.Err
	}
	c.state.Tagging = tagging.WithPerson(c.state.Tagging, res.Person)
	return nil
}

// BeginDelete returns the paths of the selected images.
func (c *Controller) BeginDelete() (Ticket, []string, error) {
	if !c.state.CanAdmin {
		return Ticket{}, nil, ErrNotAdmin
	}
	if c.state.Mode != selection.KindBrowse || c.state.FilterEnabled {
		return Ticket{}, nil, ErrWrongMode
	}
	paths := selection.Selected(c.state.Images)
	if len(paths) == 0 {
		return Ticket{}, nil, ErrNothingSelected
	}
	return c.next(), paths, nil
}

type DeleteOutcome struct {
	Ticket Ticket
	Paths  []string
	Result model.DeleteResult
	Err    error
}

func (c *Controller) Delete(ctx context.Context, t Ticket, paths []string) DeleteOutcome {
	res, err := c.backend.DeleteImages(ctx, paths)
	return DeleteOutcome{Ticket: t, Paths: paths, Result: res, Err: err}
}

// ApplyDelete removes the images once the server reports no failure.
func (c *Controller) ApplyDelete(out DeleteOutcome) error {
	if c.stale("delete", out.Ticket) {
		return ErrStale
	}
	if out.Err != nil {
		return out.Err
	}
	if out.Result.Errors > 0 {
		return &PartialDeleteError{Success: out.Result.Success, Errors: out.Result.Errors}
	}
	removed := make(map[string]struct{}, len(out.Paths))
	for _, p := range out.Paths {
		removed[p] = struct{}{}
	}
	c.state.OriginalImages = withoutPaths(c.state.OriginalImages, removed)
	c.state.Images = withoutPaths(c.state.Images, removed)
	next := c.state.Tagging.Clone()
	next.AllImages = withoutPaths(next.AllImages, removed)
	c.state.Tagging = next
	if c.state.ShowTimeline {
		c.rebuildTimeline()
	}
	c.log.Info("images deleted", zap.Int("count", len(out.Paths)))
	return nil
}

func (c *Controller) rebuildTimeline() {
	var key string
	if old := c.state.Timeline; old != nil && old.Selected() >= 0 {
		key = old.Groups[old.Selected()].Key
	}
	c.state.Timeline = timeline.New(c.state.OriginalImages, c.timelineOptions())
	for i, g := range c.state.Timeline.Groups {
		if g.Key == key {
			c.state.Timeline.Select(i)
			return
		}
	}
	if key != "" {
		c.state.Images = []model.MediaItem{}
		next := c.state.Tagging.Clone()
		next.AllImages = nil
		c.state.Tagging = next
	}
}

// Action names a folder maintenance operation.
type Action string

const (
	ActionRemoveFolder Action = "remove"
	ActionUpdate       Action = "update"
	ActionUpdateExif   Action = "exif"
)

// BeginAction validates a folder maintenance operation and returns its URL.
// Removing is only offered for an empty folder.
func (c *Controller) BeginAction(a Action) (Ticket, string, error) {
	if !c.state.CanAdmin {
		return Ticket{}, "", ErrNotAdmin
	}
	if !c.state.Open() {
		return Ticket{}, "", ErrNoFolder
	}
	if c.state.Mode != selection.KindBrowse {
		return Ticket{}, "", ErrWrongMode
	}
	var link string
	switch a {
	case ActionRemoveFolder:
		if c.state.FilterEnabled {
			return Ticket{}, "", ErrWrongMode
		}
		if len(c.state.OriginalImages) > 0 {
			return Ticket{}, "", ErrFolderNotEmpty
		}
		link = c.state.Folder.RemoveURL
	case ActionUpdate:
		link = c.state.Folder.UpdateURL
	case ActionUpdateExif:
		link = c.state.Folder.UpdateExifURL
	}
	if link == "" {
		return Ticket{}, "", ErrUnavailable
	}
	return c.next(), link, nil
}

type ActionResult struct {
	Ticket Ticket
	Action Action
	Err    error
}

func (c *Controller) RunAction(ctx context.Context, t Ticket, a Action, link string) ActionResult {
	var err error
	switch a {
	case ActionRemoveFolder:
		err = c.backend.RemoveFolder(ctx, link)
	case ActionUpdate:
		err = c.backend.UpdateFolder(ctx, link)
	case ActionUpdateExif:
		err = c.backend.UpdateExif(ctx, link)
	default:
		err = ErrUnavailable
	}
	return ActionResult{Ticket: t, Action: a, Err: err}
}

// ApplyAction reports whether the folder should be reloaded. A removed folder is closed.
func (c *Controller) ApplyAction(res ActionResult) (reload bool, err error) {
	if c.stale(string(res.Action), res.Ticket) {
		return false, ErrStale
	}
	if res.Err != nil {
		return false, res.Err
	}
	c.log.Info("folder action done", zap.String("action", string(res.Action)), zap.String("key", c.state.Request.Key))
	if res.Action == ActionRemoveFolder {
		c.Open(model.LoadRequest{})
		return false, nil
	}
	return true, nil
}

// BeginAddTag prepares a new folder tag. An empty color means the default.
func (c *Controller) BeginAddTag(value, color string) (Ticket, string, model.RawTag, error) {
	value = strings.TrimSpace(value)
	if err := tagging.ValidateTagValue(value); err != nil {
		return Ticket{}, "", model.RawTag{}, err
	}
	url, err := c.tagsURL()
	if err != nil {
		return Ticket{}, "", model.RawTag{}, err
	}
	if _, ok := c.findTag(value); ok {
		return Ticket{}, "", model.RawTag{}, ErrDuplicateTag
	}
	col, err := parseColor(color)
	if err != nil {
		return Ticket{}, "", model.RawTag{}, err
	}
	return c.next(), url, model.RawTag{Value: value, Color: col.String()}, nil
}

func (c *Controller) BeginRecolorTag(value, color string) (Ticket, string, model.RawTag, error) {
	url, err := c.tagsURL()
	if err != nil {
		return Ticket{}, "", model.RawTag{}, err
	}
	if _, ok := c.findTag(value); !ok {
		return Ticket{}, "", model.RawTag{}, ErrUnknownTag
	}
	col, err := parseColor(color)
	if err != nil {
		return Ticket{}, "", model.RawTag{}, err
	}
	return c.next(), url, model.RawTag{Value: value, Color: col.String()}, nil
}

func (c *Controller) BeginRemoveTag(value string) (Ticket, string, model.RawTag, error) {
	url, err := c.tagsURL()
	if err != nil {
		return Ticket{}, "", model.RawTag{}, err
	}
	t, ok := c.findTag(value)
	if !ok {
		return Ticket{}, "", model.RawTag{}, ErrUnknownTag
	}
	return c.next(), url, model.RawTag{Value: t.Value, Color: t.Color.String(), ToRemove: true}, nil
}

func parseColor(s string) (model.RGBColor, error) {
	if strings.TrimSpace(s) == "" {
		return model.DefaultTagColor, nil
	}
	return model.ParseColor(s)
}

func (c *Controller) tagsURL() (string, error) {
	if !c.state.CanAdmin {
		return "", ErrNotAdmin
	}
	if !c.state.Open() {
		return "", ErrNoFolder
	}
	if c.state.Request.TagsURL == "" {
		return "", ErrUnavailable
	}
	return c.state.Request.TagsURL, nil
}

func (c *Controller) findTag(value string) (model.Tag, bool) {
	for _, t := range c.state.Folder.Tags {
		if t.Value == value {
			return t, true
		}
	}
	return model.Tag{}, false
}

type TagResult struct {
	Ticket Ticket
	Tag    model.RawTag
	Err    error
}

func (c *Controller) SaveTag(ctx context.Context, t Ticket, tagsURL string, tag model.RawTag) TagResult {
	return TagResult{Ticket: t, Tag: tag, Err: c.backend.SaveFolderTag(ctx, tagsURL, tag)}
}

// ApplyTag updates the folder tags after the server accepted the change.
func (c *Controller) ApplyTag(res TagResult) error {
	if c.stale("tag", res.Ticket) {
		return ErrStale
	}
	if res.Err != nil {
		return res.Err
	}
	tags := make([]model.Tag, 0, len(c.state.Folder.Tags)+1)
	replaced := false
	for _, t := range c.state.Folder.Tags {
		if t.Value != res.Tag.Value {
			tags = append(tags, t)
			continue
		}
		replaced = true
		if !res.Tag.ToRemove {
			tags = append(tags, model.Tag{Value: t.Value, Color: colorOrDefault(res.Tag.Color)})
		}
	}
	if !replaced && !res.Tag.ToRemove {
		tags = append(tags, model.Tag{Value: res.Tag.Value, Color: colorOrDefault(res.Tag.Color)})
	}
	c.state.Folder.Tags = SortedTags(tags)
	return nil
}

func colorOrDefault(s string) model.RGBColor {
	col, err := model.ParseColor(s)
	if err != nil {
		return model.DefaultTagColor
	}
	return col
}

// BeginEditDetails prepares a title and description update for the open folder.
func (c *Controller) BeginEditDetails(title, description string) (Ticket, model.FolderDetails, error) {
	if !c.state.CanAdmin {
		return Ticket{}, model.FolderDetails{}, ErrNotAdmin
	}
	if !c.state.Open() {
		return Ticket{}, model.FolderDetails{}, ErrNoFolder
	}
	path := c.state.Request.Path
	if path == "" {
		path = c.state.Folder.Path
	}
	if path == "" {
		return Ticket{}, model.FolderDetails{}, ErrUnavailable
	}
	return c.next(), model.FolderDetails{
		Path:        path,
		Title:       strings.TrimSpace(title),
		Description: description,
	}, nil
}

type DetailsResult struct {
	Ticket  Ticket
	Details model.FolderDetails
	Err     error
}

func (c *Controller) EditDetails(ctx context.Context, t Ticket, d model.FolderDetails) DetailsResult {
	return DetailsResult{Ticket: t, Details: d, Err: c.backend.EditDetails(ctx, d)}
}

func (c *Controller) ApplyDetails(res DetailsResult) error {
	if c.stale("details", res.Ticket) {
		return ErrStale
	}
	if res.Err != nil {
		return res.Err
	}
	c.state.Folder.Title = res.Details.Title
	c.state.Folder.Description = res.Details.Description
	return nil
}
