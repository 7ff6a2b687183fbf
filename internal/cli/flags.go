package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// planStatusValue is a --status flag restricted to known plan statuses.
type planStatusValue struct{ dst *domain.PlanStatus }

var _ pflag.Value = planStatusValue{}

func (v planStatusValue) String() string {
	if v.dst == nil {
		return ""
	}
	return string(*v.dst)
}

func (v planStatusValue) Set(s string) error {
	st := domain.PlanStatus(s)
	if !st.Valid() {
		return fmt.Errorf("must be one of active, paused, completed, archived")
	}
	*v.dst = st
	return nil
}

func (planStatusValue) Type() string { return "status" }

type taskStatusValue struct{ dst *domain.TaskStatus }

var _ pflag.Value = taskStatusValue{}

func (v taskStatusValue) String() string {
	if v.dst == nil {
		return ""
	}
	return string(*v.dst)
}

func (v taskStatusValue) Set(s string) error {
	st := domain.TaskStatus(s)
	if !st.Valid() {
		return fmt.Errorf("must be one of pending, in_progress, completed")
	}
	*v.dst = st
	return nil
}

func (taskStatusValue) Type() string { return "status" }

// dateValue parses YYYY-MM-DD into a UTC date. A nil *time.Time means unset.
type dateValue struct{ dst **time.Time }

var _ pflag.Value = dateValue{}

func (v dateValue) String() string {
	if v.dst == nil || *v.dst == nil {
		return ""
	}
	return (*v.dst).Format(dateLayout)
}

func (v dateValue) Set(s string) error {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("expected YYYY-MM-DD")
	}
	*v.dst = &t
	return nil
}

func (dateValue) Type() string { return "date" }

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// requireFlags reports the named flags left empty, in cobra's wording. Commands
// that can prompt for input check this themselves instead of marking flags
// required.
func requireFlags(cmd *cobra.Command, names ...string) error {
	var missing []string
	for _, name := range names {
		if f := cmd.Flags().Lookup(name); f != nil && f.Value.String() == "" {
			missing = append(missing, strconv.Quote(name))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", "))
}
