package commands

import (
	"context"
	"fmt"
	"strings"

	"vittlify/internal/application/common/logging"
	"vittlify/internal/client/output"
	"vittlify/internal/domain/entity"
	"vittlify/internal/domain/errors/domain"
	"vittlify/internal/port/outbound"
	"vittlify/internal/version"
)

// Table titles.
const (
	titleAllLists   = "All Lists"
	titleCompleted  = "Recently Completed"
	titleCategories = "Categories"
)

// Dispatcher runs parsed commands against a list service.
type Dispatcher struct {
	service     outbound.ListService
	renderer    *output.Renderer
	help        *HelpCatalog
	logger      logging.ApplicationLogger
	version     *version.VersionInfo
	defaultList string
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDefaultList sets the list used when a command names none.
func WithDefaultList(guid string) DispatcherOption {
	return func(d *Dispatcher) {
		d.defaultList = guid
	}
}

// WithDispatchLogger sets the logger for dispatch decisions.
func WithDispatchLogger(logger logging.ApplicationLogger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger.WithComponent("dispatcher")
		}
	}
}

// WithVersion sets the version shown by the version command.
func WithVersion(info *version.VersionInfo) DispatcherOption {
	return func(d *Dispatcher) {
		if info != nil {
			d.version = info
		}
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(
	service outbound.ListService,
	renderer *output.Renderer,
	help *HelpCatalog,
	opts ...DispatcherOption,
) *Dispatcher {
	d := &Dispatcher{
		service:  service,
		renderer: renderer,
		help:     help,
		logger:   logging.NewNopLogger(),
		version:  version.GetVersion(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch parses args and executes the resulting command.
func (d *Dispatcher) Dispatch(ctx context.Context, args []string) error {
	cmd, err := Parse(args, d.defaultList)
	if err != nil {
		d.logger.Debug(ctx, "command rejected", logging.Fields{"args": strings.Join(args, " "), "error": err.Error()})
		return err
	}
	return d.Execute(ctx, cmd)
}

// Execute runs cmd. The first failing round trip ends the command.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) error {
	d.logger.Debug(ctx, "dispatching command", logging.Fields{
		"verb":    cmd.Verb.String(),
		"guid":    cmd.GUID,
		"options": fmt.Sprintf("%+v", cmd.Options),
	})

	switch cmd.Verb {
	case VerbListItems:
		return d.soft(ctx, d.showList(ctx, cmd))
	case VerbAllLists:
		return d.soft(ctx, d.showAllLists(ctx, cmd))
	case VerbShowItem:
		return d.soft(ctx, d.showItem(ctx, cmd.GUID, cmd.Options))
	case VerbMarkDone:
		return d.markDone(ctx, cmd, true)
	case VerbMarkUndone:
		return d.markDone(ctx, cmd, false)
	case VerbAnnotate:
		return d.annotate(ctx, cmd)
	case VerbCreate:
		return d.create(ctx, cmd)
	case VerbRelocate:
		return d.relocate(ctx, cmd)
	case VerbListCategories:
		return d.showCategories(ctx, cmd)
	case VerbTagItem:
		return d.soft(ctx, d.tagItem(ctx, cmd))
	case VerbHelp:
		return d.write(d.help.Topic(cmd.Topic))
	case VerbVersion:
		return d.version.Write(d.renderer, cmd.Options.Short)
	case VerbUnknown:
	}
	return d.write(d.help.General)
}

// soft prints a backend domain error inline and swallows it. Any other error passes through.
func (d *Dispatcher) soft(ctx context.Context, err error) error {
	var classified *domain.Error
	if err == nil || !asKind(err, domain.KindDomain, &classified) {
		return err
	}
	d.logger.Info(ctx, "backend rejected request", logging.Fields{"status": classified.StatusCode})
	return d.renderer.Errorln(classified.Message)
}

func (d *Dispatcher) showList(ctx context.Context, cmd Command) error {
	list, err := d.service.ListInfo(ctx, cmd.GUID)
	if err != nil {
		return err
	}

	items, err := d.service.ListItems(ctx, cmd.GUID, cmd.Options.Unfinished)
	if err != nil {
		return err
	}

	return d.renderRecords(items, output.RowOptions{
		List:            list,
		IncludeComments: cmd.Options.Extended,
		IncludeCategory: cmd.Options.IncludeCategory,
	}, output.TableOptions{Title: list.Name, Quiet: cmd.Options.Quiet})
}

func (d *Dispatcher) showAllLists(ctx context.Context, cmd Command) error {
	lists, err := d.service.AllLists(ctx)
	if err != nil {
		return err
	}
	return d.renderRecords(lists, output.RowOptions{}, output.TableOptions{Title: titleAllLists, Quiet: cmd.Options.Quiet})
}

func (d *Dispatcher) showItem(ctx context.Context, guid string, opts Options) error {
	item, err := d.service.Item(ctx, guid)
	if err != nil {
		return err
	}
	return d.renderRecords([]entity.Record{*item}, output.RowOptions{IncludeComments: true},
		output.TableOptions{Quiet: opts.Quiet})
}

func (d *Dispatcher) markDone(ctx context.Context, cmd Command, done bool) error {
	if len(cmd.GUIDs) == 0 {
		items, err := d.service.Completed(ctx)
		if err != nil {
			return err
		}
		return d.renderRecords(items, output.RowOptions{IncludeComments: cmd.Options.Extended},
			output.TableOptions{Title: titleCompleted, Quiet: cmd.Options.Quiet})
	}

	styles := d.renderer.Styles()
	for _, guid := range cmd.GUIDs {
		item, err := d.service.SetDone(ctx, guid, done)
		if err != nil {
			return fmt.Errorf("mark %s: %w", guid, err)
		}

		line := fmt.Sprintf("Marked %s undone.", styles.Name.Render(item.Name))
		if done {
			line = fmt.Sprintf("Marked %s as done.", styles.Muted.Render(item.Name))
		}
		if err := d.write(line); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) annotate(ctx context.Context, cmd Command) error {
	comments := cmd.Text
	switch {
	case cmd.Options.Delete:
		comments = ""
	case cmd.Options.Append:
		item, err := d.service.Item(ctx, cmd.GUID)
		if err != nil {
			return err
		}
		if item.HasComments() {
			comments = item.Comments + "\n" + cmd.Text
		}
	}

	if _, err := d.service.Modify(ctx, cmd.GUID, comments); err != nil {
		return err
	}
	return d.showItem(ctx, cmd.GUID, cmd.Options)
}

func (d *Dispatcher) create(ctx context.Context, cmd Command) error {
	item, err := d.service.AddItem(ctx, cmd.GUID, cmd.Name, cmd.Text)
	if err != nil {
		return err
	}
	return d.renderRecords([]entity.Record{*item}, output.RowOptions{}, output.TableOptions{Quiet: cmd.Options.Quiet})
}

func (d *Dispatcher) relocate(ctx context.Context, cmd Command) error {
	if err := d.service.Move(ctx, cmd.GUID, cmd.Destination); err != nil {
		return err
	}
	id := d.renderer.Styles().Identifier
	return d.write(fmt.Sprintf("Moved item %s to list %s", id.Render(cmd.GUID), id.Render(cmd.Destination)))
}

func (d *Dispatcher) showCategories(ctx context.Context, cmd Command) error {
	categories, err := d.service.Categories(ctx, cmd.GUID)
	if err != nil {
		return err
	}

	rows := make([]output.Row, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, output.Row{{Text: category.Name, Role: output.RoleCategory}})
	}
	return d.renderer.Render(rows, output.TableOptions{Title: titleCategories, Quiet: cmd.Options.Quiet})
}

func (d *Dispatcher) tagItem(ctx context.Context, cmd Command) error {
	if err := d.service.Categorize(ctx, cmd.GUID, cmd.Destination); err != nil {
		return err
	}
	styles := d.renderer.Styles()
	return d.write(fmt.Sprintf("Categorized item %s as %s",
		styles.Identifier.Render(cmd.GUID), styles.Name.Render(cmd.Destination)))
}

func (d *Dispatcher) renderRecords(records []entity.Record, rowOpts output.RowOptions, tableOpts output.TableOptions) error {
	rows := make([]output.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, d.renderer.Row(record, rowOpts))
	}
	return d.renderer.Render(rows, tableOpts)
}

func (d *Dispatcher) write(text string) error {
	return d.renderer.Println(strings.TrimRight(text, "\n"))
}
