package hashparams

import (
	"net/url"
	"strings"
)

// Param is one key/value pair of a fragment.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of fragment parameters.
type Params []Param

// Split breaks a fragment into its parameters. A leading "#" is ignored,
// pairs are separated by "&" and split at the first "=". Empty pairs are
// skipped and values are unescaped when they are valid escapes.
func Split(fragment string) Params {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return nil
	}

	var params Params
	for _, pair := range strings.Split(fragment, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}
		params = append(params, Param{Key: key, Value: value})
	}
	return params
}

// Get returns the value of the last parameter named key.
func (p Params) Get(key string) (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return "", false
}

// Encode joins the parameters back into a fragment without the leading "#".
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(param.Key)
		b.WriteByte('=')
		b.WriteString(escape(param.Value))
	}
	return b.String()
}

// escape percent-encodes everything Split would misread. Spaces become %20
// rather than "+" because Split keeps "+" literal.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
