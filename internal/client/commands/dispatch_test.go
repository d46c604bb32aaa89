package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"vittlify/internal/application/common/logging"
	"vittlify/internal/client/commands"
	"vittlify/internal/client/output"
	"vittlify/internal/domain/entity"
	"vittlify/internal/domain/errors/domain"
	"vittlify/internal/version"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeListService records calls and answers from canned data.
type fakeListService struct {
	lists      map[string]entity.Record
	items      map[string]entity.Record
	listItems  map[string][]entity.Record
	completed  []entity.Record
	categories map[string][]entity.Category

	// failOn makes the named operation return err.
	failOn map[string]error

	calls []string
}

func newFakeListService() *fakeListService {
	return &fakeListService{
		lists:      map[string]entity.Record{},
		items:      map[string]entity.Record{},
		listItems:  map[string][]entity.Record{},
		categories: map[string][]entity.Category{},
		failOn:     map[string]error{},
	}
}

func (f *fakeListService) record(call string) error {
	f.calls = append(f.calls, call)
	name := strings.SplitN(call, " ", 2)[0]
	return f.failOn[name]
}

func (f *fakeListService) AllLists(context.Context) ([]entity.Record, error) {
	if err := f.record("AllLists"); err != nil {
		return nil, err
	}
	var out []entity.Record
	for _, list := range f.lists {
		out = append(out, list)
	}
	return out, nil
}

func (f *fakeListService) ListInfo(_ context.Context, guid string) (*entity.Record, error) {
	if err := f.record("ListInfo " + guid); err != nil {
		return nil, err
	}
	list, ok := f.lists[guid]
	if !ok {
		return nil, domain.NewDomainError(404, "List not found")
	}
	return &list, nil
}

func (f *fakeListService) ListItems(_ context.Context, guid string, unfinished bool) ([]entity.Record, error) {
	call := "ListItems " + guid
	if unfinished {
		call += " unfinished"
	}
	if err := f.record(call); err != nil {
		return nil, err
	}
	return f.listItems[guid], nil
}

func (f *fakeListService) Completed(context.Context) ([]entity.Record, error) {
	if err := f.record("Completed"); err != nil {
		return nil, err
	}
	return f.completed, nil
}

func (f *fakeListService) Item(_ context.Context, guid string) (*entity.Record, error) {
	if err := f.record("Item " + guid); err != nil {
		return nil, err
	}
	item, ok := f.items[guid]
	if !ok {
		return nil, domain.NewDomainError(404, "Item not found")
	}
	return &item, nil
}

func (f *fakeListService) SetDone(_ context.Context, guid string, done bool) (*entity.Record, error) {
	call := "SetDone " + guid
	if !done {
		call = "SetUndone " + guid
	}
	if err := f.record(call); err != nil {
		return nil, err
	}
	item, ok := f.items[guid]
	if !ok {
		return nil, domain.NewDomainError(404, "Item not found")
	}
	item.Done = done
	f.items[guid] = item
	return &item, nil
}

func (f *fakeListService) Modify(_ context.Context, guid, comments string) (*entity.Record, error) {
	if err := f.record("Modify " + guid + " " + comments); err != nil {
		return nil, err
	}
	item := f.items[guid]
	item.Comments = comments
	f.items[guid] = item
	return &item, nil
}

func (f *fakeListService) AddItem(_ context.Context, listGUID, name, comments string) (*entity.Record, error) {
	if err := f.record("AddItem " + listGUID + " " + name); err != nil {
		return nil, err
	}
	return &entity.Record{GUID: "new0000001", Name: name, Comments: comments}, nil
}

func (f *fakeListService) Move(_ context.Context, guid, toListGUID string) error {
	return f.record("Move " + guid + " " + toListGUID)
}

func (f *fakeListService) Categorize(_ context.Context, guid, categoryName string) error {
	return f.record("Categorize " + guid + " " + categoryName)
}

func (f *fakeListService) Categories(_ context.Context, listGUID string) ([]entity.Category, error) {
	if err := f.record("Categories " + listGUID); err != nil {
		return nil, err
	}
	return f.categories[listGUID], nil
}

type harness struct {
	service    *fakeListService
	renderer   *output.Renderer
	dispatcher *commands.Dispatcher
	reporter   *commands.Reporter
	out        *bytes.Buffer
	errOut     *bytes.Buffer
}

func newHarness(t *testing.T, opts ...commands.DispatcherOption) *harness {
	t.Helper()

	help, err := commands.LoadHelp()
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	renderer := output.NewRenderer(&out, &errOut, output.WithColorProfile(termenv.Ascii), output.WithWidth(100))
	service := newFakeListService()

	return &harness{
		service:    service,
		renderer:   renderer,
		dispatcher: commands.NewDispatcher(service, renderer, help, opts...),
		reporter:   commands.NewReporter(renderer, help, commands.ReportOptions{BaseURL: "http://127.0.0.1:8000/vittlify/"}),
		out:        &out,
		errOut:     &errOut,
	}
}

func seedGroceries(f *fakeListService) {
	f.lists["g1"] = entity.Record{GUID: "g1", Name: "Groceries", Categories: []entity.Category{{Name: "Dairy"}}}
	f.listItems["g1"] = []entity.Record{
		{GUID: "aaaaaaa111", Name: "Eggs", Comments: "dozen", CategoryName: "Dairy"},
		{GUID: "bbbbbbb222", Name: "Milk", Done: true},
	}
	f.items["aaaaaaa111"] = f.listItems["g1"][0]
	f.items["bbbbbbb222"] = f.listItems["g1"][1]
}

func TestDispatch_List(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	seedGroceries(h.service)

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"list", "g1", "-e"}))

	assert.Equal(t, []string{"ListInfo g1", "ListItems g1"}, h.service.calls)
	text := h.out.String()
	assert.True(t, strings.HasPrefix(text, "Groceries\n"), text)
	assert.Contains(t, text, "aaaaaaa1")
	assert.Contains(t, text, "+ Eggs")
	assert.Contains(t, text, "dozen")
	assert.Contains(t, text, "bbbbbbb2")
	assert.NotContains(t, text, "Dairy", "category column needs -c")
	assert.Empty(t, h.errOut.String())
}

func TestDispatch_ListRowsAndStyling(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	list := entity.Record{GUID: "g1", Name: "Groceries"}
	items := []entity.Record{
		{GUID: "aaaaaaa111", Name: "Eggs", Comments: "dozen"},
		{GUID: "bbbbbbb222", Name: "Milk", Done: true},
	}
	h.service.lists["g1"] = list
	h.service.listItems["g1"] = items

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"list", "g1", "-e"}))

	opts := output.RowOptions{List: &list, IncludeComments: true}
	eggs := h.renderer.Row(items[0], opts)
	milk := h.renderer.Row(items[1], opts)

	require.Len(t, eggs, 3)
	assert.Equal(t, output.Cell{Text: "aaaaaaa1", Role: output.RoleIdentifier}, eggs[0])
	assert.Equal(t, output.Cell{Text: "+ Eggs", Role: output.RoleName}, eggs[1])
	assert.Equal(t, output.Cell{Text: "dozen", Role: output.RoleComments}, eggs[2])

	require.Len(t, milk, 2, "no comments cell for an item without comments")
	assert.Equal(t, output.Cell{Text: "bbbbbbb2", Role: output.RoleIdentifier, Muted: true}, milk[0])
	assert.Equal(t, output.Cell{Text: "  Milk", Role: output.RoleName, Muted: true}, milk[1])

	styles := h.renderer.Styles()
	assert.True(t, styles.For(output.RoleName, true).GetStrikethrough())
	assert.False(t, styles.For(output.RoleIdentifier, false).GetStrikethrough())

	lines := strings.Split(strings.TrimRight(h.out.String(), "\n"), "\n")
	require.Len(t, lines, 5, "title, top border, two rows, bottom border")
	assert.Equal(t, "Groceries", lines[0])
	assert.Contains(t, lines[2], "aaaaaaa1")
	assert.Contains(t, lines[2], "+ Eggs")
	assert.Contains(t, lines[2], "dozen")
	assert.Contains(t, lines[3], "bbbbbbb2")
	assert.Contains(t, lines[3], "  Milk")
	assert.NotContains(t, lines[3], "dozen")
}

func TestDispatch_ListUnfinishedWithCategories(t *testing.T) {
	t.Parallel()

	h := newHarness(t, commands.WithDefaultList("g1"))
	seedGroceries(h.service)

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"list", "-uc"}))

	assert.Equal(t, []string{"ListInfo g1", "ListItems g1 unfinished"}, h.service.calls)
	assert.Contains(t, h.out.String(), "Dairy")
}

func TestDispatch_ListDomainErrorIsSoft(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	err := h.dispatcher.Dispatch(context.Background(), []string{"list", "missing"})

	require.NoError(t, err)
	assert.Equal(t, "List not found\n", h.errOut.String())
	assert.Empty(t, h.out.String())
}

func TestDispatch_SoftVerbsStillFailOnTransportErrors(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.service.failOn["AllLists"] = domain.NewTransportError("http://x/vt/", "", errors.New("connection refused"))

	err := h.dispatcher.Dispatch(context.Background(), []string{"lists"})
	assert.True(t, domain.IsKind(err, domain.KindTransport))
}

func TestDispatch_AllListsQuiet(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.service.lists["g1"] = entity.Record{GUID: "g1", Name: "Groceries"}

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"lists", "-q"}))

	assert.NotContains(t, h.out.String(), "All Lists")
	assert.NotContains(t, h.out.String(), "│")
	assert.Contains(t, h.out.String(), "Groceries")
}

func TestDispatch_ShowItem(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	seedGroceries(h.service)

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"show", "aaaaaaa111"}))
	assert.Contains(t, h.out.String(), "dozen", "items always show comments")

	h.out.Reset()
	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"item", "nope"}))
	assert.Equal(t, "Item not found\n", h.errOut.String())
}

func TestDispatch_ShowItemArity(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	err := h.dispatcher.Dispatch(context.Background(), []string{"item"})
	assert.True(t, domain.IsKind(err, domain.KindArity))
	assert.Empty(t, h.service.calls)

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"item", "g1"}))
}

func TestDispatch_MarkDoneBatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	seedGroceries(h.service)

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"done", "aaaaaaa111", "bbbbbbb222"}))

	assert.Equal(t, []string{"SetDone aaaaaaa111", "SetDone bbbbbbb222"}, h.service.calls)
	assert.Equal(t, "Marked Eggs as done.\nMarked Milk as done.\n", h.out.String())
}

func TestDispatch_MarkDoneStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	seedGroceries(h.service)

	err := h.dispatcher.Dispatch(context.Background(), []string{"undone", "aaaaaaa111", "missing", "bbbbbbb222"})

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindDomain))
	assert.Equal(t, []string{"SetUndone aaaaaaa111", "SetUndone missing"}, h.service.calls)
	assert.Equal(t, "Marked Eggs undone.\n", h.out.String())
}

func TestDispatch_MarkDoneWithoutIdentifiersShowsCompleted(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.service.completed = []entity.Record{{GUID: "ccccccc333", Name: "Bread", Done: true}}

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"done"}))

	assert.Equal(t, []string{"Completed"}, h.service.calls)
	assert.True(t, strings.HasPrefix(h.out.String(), "Recently Completed\n"))
	assert.Contains(t, h.out.String(), "ccccccc3")
}

func TestDispatch_Annotate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantCalls []string
	}{
		{
			name:      "replace",
			args:      []string{"modify", "aaaaaaa111", "two", "dozen"},
			wantCalls: []string{"Modify aaaaaaa111 two dozen", "Item aaaaaaa111"},
		},
		{
			name:      "append below existing comments",
			args:      []string{"comment", "aaaaaaa111", "-a", "brown"},
			wantCalls: []string{"Item aaaaaaa111", "Modify aaaaaaa111 dozen\nbrown", "Item aaaaaaa111"},
		},
		{
			name:      "append without existing comments",
			args:      []string{"comment", "bbbbbbb222", "--append", "skim"},
			wantCalls: []string{"Item bbbbbbb222", "Modify bbbbbbb222 skim", "Item bbbbbbb222"},
		},
		{
			name:      "delete ignores text",
			args:      []string{"edit", "aaaaaaa111", "-d", "ignored"},
			wantCalls: []string{"Modify aaaaaaa111 ", "Item aaaaaaa111"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			seedGroceries(h.service)

			require.NoError(t, h.dispatcher.Dispatch(context.Background(), tt.args))
			assert.Equal(t, tt.wantCalls, h.service.calls)
			assert.Contains(t, h.out.String(), h.service.items[tt.args[1]].ShortGUID())
		})
	}
}

func TestDispatch_Create(t *testing.T) {
	t.Parallel()

	h := newHarness(t, commands.WithDefaultList("g1"))

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"add", "Butter"}))

	assert.Equal(t, []string{"AddItem g1 Butter"}, h.service.calls)
	assert.Contains(t, h.out.String(), "new00000")
	assert.Contains(t, h.out.String(), "  Butter")
}

func TestDispatch_RelocateAndTag(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"mv", "i1", "g2"}))
	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"categorize", "i1", "Dairy"}))

	assert.Equal(t, []string{"Move i1 g2", "Categorize i1 Dairy"}, h.service.calls)
	assert.Equal(t, "Moved item i1 to list g2\nCategorized item i1 as Dairy\n", h.out.String())
}

func TestDispatch_TagItemDomainErrorIsSoft(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.service.failOn["Categorize"] = domain.NewDomainError(409, "Category Frozen does not exist")

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"label", "i1", "Frozen"}))
	assert.Equal(t, "Category Frozen does not exist\n", h.errOut.String())
}

func TestDispatch_RelocateDomainErrorIsHard(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.service.failOn["Move"] = domain.NewDomainError(404, "List not found")

	err := h.dispatcher.Dispatch(context.Background(), []string{"move", "i1", "nope"})
	assert.True(t, domain.IsKind(err, domain.KindDomain))
}

func TestDispatch_Categories(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.service.categories["g1"] = []entity.Category{{Name: "Dairy"}, {Name: "Produce"}}

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"categories", "g1"}))

	assert.True(t, strings.HasPrefix(h.out.String(), "Categories\n"))
	assert.Contains(t, h.out.String(), "Dairy")
	assert.Contains(t, h.out.String(), "Produce")
}

func TestDispatch_HelpVersionAndUnknownNeverCallTheService(t *testing.T) {
	t.Parallel()

	h := newHarness(t, commands.WithVersion(&version.VersionInfo{Version: "v1.4.0", Commit: "abc", BuildTime: "2025-01-01"}))
	help, err := commands.LoadHelp()
	require.NoError(t, err)

	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"help"}))
	assert.Equal(t, strings.TrimRight(help.General, "\n")+"\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"help", "mv"}))
	assert.Equal(t, strings.TrimRight(help.Topic("move"), "\n")+"\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"frobnicate"}))
	assert.Equal(t, strings.TrimRight(help.General, "\n")+"\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"version"}))
	assert.Contains(t, h.out.String(), "Version: v1.4.0")

	h.out.Reset()
	require.NoError(t, h.dispatcher.Dispatch(context.Background(), []string{"version", "--short"}))
	assert.Equal(t, "v1.4.0\n", h.out.String())

	assert.Empty(t, h.service.calls)
}

func TestReporter_Report(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		opts       commands.ReportOptions
		wantLines  []string
		wantAbsent string
	}{
		{
			name:      "arity prints message and general help",
			err:       domain.NewArityCountError("item", 1, 0),
			wantLines: []string{"Incorrect number of arguments provided", "Usage:"},
		},
		{
			name:       "transport without proxy",
			err:        domain.NewTransportError("http://127.0.0.1:8000/vittlify/vt/", "", errors.New("refused")),
			opts:       commands.ReportOptions{BaseURL: "http://127.0.0.1:8000/vittlify/"},
			wantLines:  []string{"Unable to connect to Vittlify instance at http://127.0.0.1:8000/vittlify/"},
			wantAbsent: "proxy",
		},
		{
			name:      "transport through proxy",
			err:       domain.NewTransportError("http://h/vt/", "socks5://127.0.0.1:1080", errors.New("refused")),
			wantLines: []string{"Unable to connect to Vittlify instance at http://h/vt/", "Attempted to use proxy at socks5://127.0.0.1:1080"},
		},
		{
			name:      "http",
			err:       domain.NewHTTPError(500, "500 Internal Server Error"),
			wantLines: []string{"Server responded with 500 Internal Server Error"},
		},
		{
			name:      "domain",
			err:       domain.NewDomainError(409, "Item already exists"),
			wantLines: []string{"Item already exists"},
		},
		{
			name:      "configuration",
			err:       domain.NewConfigurationError("could not find private key at /nope", domain.ErrPrivateKeyNotFound),
			wantLines: []string{"could not find private key at /nope"},
		},
		{
			name:      "diagnostic mode prints the chain",
			err:       domain.NewHTTPError(502, "502 Bad Gateway"),
			opts:      commands.ReportOptions{Diagnostic: true},
			wantLines: []string{"Server responded with 502 Bad Gateway", "Traceback:", "*domain.Error: 502 Bad Gateway"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			help, err := commands.LoadHelp()
			require.NoError(t, err)
			var out, errOut bytes.Buffer
			renderer := output.NewRenderer(&out, &errOut, output.WithColorProfile(termenv.Ascii))

			status := commands.NewReporter(renderer, help, tt.opts).Report(context.Background(), tt.err)

			assert.Equal(t, 1, status)
			assert.Empty(t, out.String())
			for _, line := range tt.wantLines {
				assert.Contains(t, errOut.String(), line)
			}
			if tt.wantAbsent != "" {
				assert.NotContains(t, errOut.String(), tt.wantAbsent)
			}
		})
	}
}

func TestReporter_NilError(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	renderer := output.NewRenderer(&out, &errOut, output.WithColorProfile(termenv.Ascii))
	assert.Equal(t, 0, commands.NewReporter(renderer, nil, commands.ReportOptions{}).Report(context.Background(), nil))
	assert.Empty(t, errOut.String())
}

func TestReporter_LogsOnlyInDiagnosticMode(t *testing.T) {
	t.Parallel()

	for _, diagnostic := range []bool{false, true} {
		var out, errOut, logs bytes.Buffer
		logger, err := logging.NewApplicationLogger(logging.Config{Level: "debug", Format: "text", Writer: &logs})
		require.NoError(t, err)
		renderer := output.NewRenderer(&out, &errOut, output.WithColorProfile(termenv.Ascii))

		reporter := commands.NewReporter(renderer, nil, commands.ReportOptions{Diagnostic: diagnostic, Logger: logger})
		assert.Equal(t, 1, reporter.Report(context.Background(), domain.NewHTTPError(503, "503 Service Unavailable")))

		if diagnostic {
			assert.Contains(t, logs.String(), "ERROR vt: command failed")
			assert.Contains(t, logs.String(), "kind=http")
		} else {
			assert.Empty(t, logs.String())
		}
	}
}
