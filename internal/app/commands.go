package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rolodex-hq/rolodex-cli/internal/domain"
	"github.com/rolodex-hq/rolodex-cli/pkg/contacts"
)

// Exit codes follow sysexits-lite: 0 ok, 1 API/transport failure, 2 usage.
const (
	exitOK       = 0
	exitAPIError = 1
	exitUsage    = 2
)

// Run parses args and dispatches one command per invocation.
// No arguments runs "birthdays", mirroring the original page-load fetch.
func (a *App) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return a.runBirthdays(ctx, nil, out, errOut)
	}

	name := args[0]
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitUsage
	}

	rest := args[1:]
	switch name {
	case "list":
		return a.runList(ctx, rest, out, errOut)
	case "get":
		return a.runGet(ctx, rest, out, errOut)
	case "add":
		return a.runAdd(ctx, rest, out, errOut)
	case "edit":
		return a.runEdit(ctx, rest, out, errOut)
	case "rm":
		return a.runRemove(ctx, rest, out, errOut)
	case "birthdays":
		return a.runBirthdays(ctx, rest, out, errOut)
	case "help":
		printUsage(out)
		return exitOK
	default:
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitUsage
	}
}

func printUsage(out io.Writer) {
	fmt.Fprint(out, `usage: rolodex [command] [flags]

commands:
  birthdays           contacts with a birthday in the upcoming window (default)
  list                list contacts (-skip, -limit, -first-name, -last-name, -email)
  get <id>            show one contact
  add                 create a contact (-first-name, -last-name, -email, -phone, -birthday)
  edit <id>           update fields of a contact (same flags as add)
  rm <id>             delete a contact
  help                show this help
`)
}

func newFlagSet(name string, errOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	return fs
}

func parseID(args []string, errOut io.Writer) (int64, bool) {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: expected exactly one contact id")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(errOut, "error: invalid contact id %q\n", args[0])
		return 0, false
	}
	return id, true
}

func (a *App) runList(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("list", errOut)
	var opts contacts.ListOptions
	fs.IntVar(&opts.Skip, "skip", 0, "records to skip")
	fs.IntVar(&opts.Limit, "limit", 0, "page size (server default 100)")
	fs.StringVar(&opts.FirstName, "first-name", "", "filter by first name")
	fs.StringVar(&opts.LastName, "last-name", "", "filter by last name")
	fs.StringVar(&opts.Email, "email", "", "filter by email")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	list, err := a.api.List(ctx, opts)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitAPIError
	}
	printContacts(out, list)
	return exitOK
}

func (a *App) runGet(ctx context.Context, args []string, out, errOut io.Writer) int {
	id, ok := parseID(args, errOut)
	if !ok {
		return exitUsage
	}

	contact, err := a.api.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitAPIError
	}
	printContacts(out, []domain.Contact{contact})
	return exitOK
}

// contactFlags registers the editable contact fields on fs and returns
// a closure applying only the flags actually set.
func contactFlags(fs *flag.FlagSet) func(*domain.Contact) error {
	var first, last, email, phone, birthday string
	fs.StringVar(&first, "first-name", "", "first name")
	fs.StringVar(&last, "last-name", "", "last name")
	fs.StringVar(&email, "email", "", "email address")
	fs.StringVar(&phone, "phone", "", "phone number")
	fs.StringVar(&birthday, "birthday", "", "birthday (YYYY-MM-DD)")

	return func(c *domain.Contact) error {
		var applyErr error
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "first-name":
				c.FirstName = first
			case "last-name":
				c.LastName = last
			case "email":
				c.Email = email
			case "phone":
				c.Phone = phone
			case "birthday":
				d, err := domain.ParseDate(birthday)
				if err != nil {
					applyErr = err
					return
				}
				c.Birthday = d
			}
		})
		return applyErr
	}
}

func (a *App) runAdd(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("add", errOut)
	apply := contactFlags(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	var contact domain.Contact
	if err := apply(&contact); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUsage
	}

	if err := a.api.Create(ctx, contact); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitAPIError
	}
	fmt.Fprintln(out, "contact created")
	return exitOK
}

func (a *App) runEdit(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("edit", errOut)
	apply := contactFlags(fs)

	// Accept the id before or after the field flags.
	var idArgs []string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		idArgs = args[:1]
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if idArgs == nil {
		idArgs = fs.Args()
	}

	id, ok := parseID(idArgs, errOut)
	if !ok {
		return exitUsage
	}
	if fs.NFlag() == 0 {
		fmt.Fprintln(errOut, "error: edit needs at least one field flag")
		return exitUsage
	}

	// PUT replaces the record, so start from the current server state.
	contact, err := a.api.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitAPIError
	}
	if err := apply(&contact); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUsage
	}
	contact.ID = id

	if err := a.api.Update(ctx, contact); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitAPIError
	}
	fmt.Fprintf(out, "contact %d updated\n", id)
	return exitOK
}

func (a *App) runRemove(ctx context.Context, args []string, out, errOut io.Writer) int {
	id, ok := parseID(args, errOut)
	if !ok {
		return exitUsage
	}

	if err := a.api.Delete(ctx, id); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitAPIError
	}
	fmt.Fprintf(out, "contact %d deleted\n", id)
	return exitOK
}

func (a *App) runBirthdays(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintln(errOut, "error: birthdays takes no arguments")
		return exitUsage
	}

	list, err := a.api.UpcomingBirthdays(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitAPIError
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "no upcoming birthdays")
		return exitOK
	}
	printContacts(out, list)
	return exitOK
}

func printContacts(out io.Writer, list []domain.Contact) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tBIRTHDAY")
	for _, c := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			c.ID, c.FullName(), c.Email, c.Phone, c.Birthday)
	}
	w.Flush()
}
