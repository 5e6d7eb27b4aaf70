package config

import (
	"fmt"
	"strings"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

// MakeConnStr builds a libpq key/value connection string for the slot database.
// Values holding spaces, quotes or backslashes are single quoted.
func MakeConnStr(conf Database) (string, error) {
	refs := []struct {
		key string
		ref commoncfg.SourceRef
	}{
		{"host", conf.Host},
		{"user", conf.User},
		{"password", conf.Password},
	}

	pairs := make([]string, 0, len(refs)+3)
	for _, r := range refs {
		value, err := commoncfg.LoadValueFromSourceRef(r.ref)
		if err != nil {
			return "", fmt.Errorf("loading db %s: %w", r.key, err)
		}
		pairs = append(pairs, r.key+"="+quoteConnValue(string(value)))
	}

	pairs = append(pairs,
		"dbname="+quoteConnValue(conf.Name),
		"port="+quoteConnValue(conf.Port),
	)
	if conf.SSLMode != "" {
		pairs = append(pairs, "sslmode="+quoteConnValue(conf.SSLMode))
	}

	return strings.Join(pairs, " "), nil
}

func quoteConnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}

	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)

	return "'" + r.Replace(v) + "'"
}
