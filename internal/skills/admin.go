package skills

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dmb-chatter/internal/command"
	"dmb-chatter/internal/phrases"
	"dmb-chatter/internal/records"
)

// Catalog lists the registered skills for the "skills" command.
type Catalog interface {
	Describe() []string
}

// Admin runs store maintenance commands typed into the conversation.
type Admin struct {
	parser   *command.Parser
	retorts  *records.Retorts
	unknowns *records.Unknowns
	catalog  Catalog
	phrases  phrases.Phrases
	log      *slog.Logger
}

func NewAdmin(parser *command.Parser, retorts *records.Retorts, unknowns *records.Unknowns, catalog Catalog, p phrases.Phrases, log *slog.Logger) *Admin {
	if log == nil {
		log = slog.Default()
	}
	return &Admin{
		parser:   parser,
		retorts:  retorts,
		unknowns: unknowns,
		catalog:  catalog,
		phrases:  p,
		log:      log,
	}
}

func (*Admin) Name() string { return "admin" }

func (a *Admin) About() string {
	return fmt.Sprintf("maintains retorts and unknowns, commands start with %q", a.parser.Prefix())
}

func (a *Admin) Process(_ context.Context, t *Turn) (string, bool) {
	cmd, ok, err := a.parser.Parse(t.Raw)
	if !ok {
		return "", false
	}
	if !t.IsAdmin {
		a.log.Info("admin command refused", "user_id", t.UserID)
		return a.phrases.NotAllowed, true
	}
	if err != nil {
		a.log.Debug("malformed admin command", "err", err)
		return a.usage(), true
	}
	return a.run(cmd), true
}

func (a *Admin) usage() string {
	return fmt.Sprintf(a.phrases.CommandUsage, a.parser.Prefix())
}

func (a *Admin) run(cmd command.Command) string {
	p := a.phrases
	switch cmd.Name {
	case command.AddRetort:
		q := cmd.Args[0]
		_, err := a.retorts.Add(records.Retort{Question: q, Answer: cmd.Args[1]})
		switch {
		case err == nil:
			return fmt.Sprintf(p.RetortAdded, q)
		case errors.Is(err, records.ErrDuplicate):
			return fmt.Sprintf(p.RetortExists, q)
		default:
			a.log.Warn("add retort", "question", q, "err", err)
			return fmt.Sprintf(p.RetortNotAdded, q)
		}
	case command.RemoveRetort:
		q := cmd.Args[0]
		err := a.retorts.RemoveKey(q)
		switch {
		case err == nil:
			return fmt.Sprintf(p.RetortRemoved, q)
		case errors.Is(err, records.ErrNotFound):
			return fmt.Sprintf(p.RetortMissing, q)
		default:
			a.log.Warn("remove retort", "question", q, "err", err)
			return fmt.Sprintf(p.RetortNotRemove, q)
		}
	case command.CountRetorts:
		return fmt.Sprintf(p.RetortsCount, a.retorts.Count())
	case command.ListRetorts:
		list := a.retorts.List()
		if len(list) == 0 {
			return p.RetortsEmpty
		}
		lines := make([]string, 0, len(list))
		for _, r := range list {
			lines = append(lines, r.AsLine())
		}
		return strings.Join(lines, "\n")
	case command.CountUnknowns:
		return fmt.Sprintf(p.UnknownsCount, a.unknowns.Count())
	case command.ListUnknowns:
		list := a.unknowns.List()
		if len(list) == 0 {
			return p.UnknownsEmpty
		}
		lines := make([]string, 0, len(list))
		for _, u := range list {
			lines = append(lines, u.AsLine())
		}
		return strings.Join(lines, "\n")
	case command.RemoveUnknown:
		q := cmd.Args[0]
		if err := a.unknowns.RemoveKey(q); err != nil {
			if !errors.Is(err, records.ErrNotFound) {
				a.log.Warn("remove unknown", "question", q, "err", err)
			}
			return fmt.Sprintf(p.UnknownMissing, q)
		}
		return fmt.Sprintf(p.UnknownRemoved, q)
	case command.Skills:
		if a.catalog == nil {
			return ""
		}
		return strings.Join(a.catalog.Describe(), "\n")
	}
	return a.usage()
}
