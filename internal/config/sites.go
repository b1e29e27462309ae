package config

import (
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"

	"github.com/hamed0406/alivemon/internal/domain"
)

// Keys of the monitored-site document.
const (
	KeyURLs       = "alive_monitored_URLs"
	KeyRecipients = "dest_mail_addrs"
	KeySender     = "src_mail_info"
	KeySenderAddr = "src_mail_info.addr"
	KeySenderPass = "src_mail_info.pass"
)

var fieldLabels = map[string]string{
	KeyURLs:       "monitored URL list",
	KeyRecipients: "recipient list",
	KeySender:     "sender mail info",
	KeySenderAddr: "sender address",
	KeySenderPass: "sender password",
}

// Sites is an immutable snapshot of the monitored-site document.
type Sites struct {
	URLs       []string
	Recipients []string
	Sender     domain.Credentials
}

func (s Sites) Targets() []domain.Target {
	out := make([]domain.Target, 0, len(s.URLs))
	for _, u := range s.URLs {
		out = append(out, domain.Target{URL: u})
	}
	return out
}

type MissingField struct {
	Key   string
	Label string
}

// MissingFieldsError lists every required key absent from the document.
type MissingFieldsError struct {
	Path   string
	Fields []MissingField
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Path, strings.Join(e.Labels(), ", "))
}

func (e *MissingFieldsError) Keys() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.Key
	}
	return out
}

func (e *MissingFieldsError) Labels() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.Label
	}
	return out
}

// LoadSites reads the document at path from scratch, so edits are picked
// up on the next cycle without a restart. A *MissingFieldsError is returned
// when required keys are absent; malformed values yield validation.Errors.
func LoadSites(path string) (Sites, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return Sites{}, fmt.Errorf("read %s: %w", path, err)
	}

	if missing := missingFields(v); len(missing) > 0 {
		return Sites{}, &MissingFieldsError{Path: path, Fields: missing}
	}

	s := Sites{
		URLs:       v.GetStringSlice(KeyURLs),
		Recipients: v.GetStringSlice(KeyRecipients),
		Sender: domain.Credentials{
			Address: v.GetString(KeySenderAddr),
			Secret:  v.GetString(KeySenderPass),
		},
	}
	if err := s.Validate(); err != nil {
		return Sites{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func missingFields(v *viper.Viper) []MissingField {
	var keys []string
	if !v.IsSet(KeyURLs) {
		keys = append(keys, KeyURLs)
	}
	if !v.IsSet(KeyRecipients) {
		keys = append(keys, KeyRecipients)
	}
	if !v.IsSet(KeySender) {
		keys = append(keys, KeySender)
	} else {
		if !v.IsSet(KeySenderAddr) {
			keys = append(keys, KeySenderAddr)
		}
		if !v.IsSet(KeySenderPass) {
			keys = append(keys, KeySenderPass)
		}
	}

	out := make([]MissingField, 0, len(keys))
	for _, k := range keys {
		out = append(out, MissingField{Key: k, Label: fieldLabels[k]})
	}
	return out
}

func (s Sites) Validate() error {
	return validation.Errors{
		KeyURLs:       validation.Validate(s.URLs, validation.Each(validation.Required, is.RequestURL)),
		KeyRecipients: validation.Validate(s.Recipients, validation.Each(validation.Required, is.EmailFormat)),
		KeySenderAddr: validation.Validate(s.Sender.Address, validation.Required, is.EmailFormat),
		KeySenderPass: validation.Validate(s.Sender.Secret, validation.Required),
	}.Filter()
}
