package enums

// TelegramLogStatus captures the terminal outcome of a notification attempt run.
type TelegramLogStatus string

const (
	TelegramLogStatusSuccess TelegramLogStatus = "success"
	TelegramLogStatusFailed  TelegramLogStatus = "failed"
)

// String implements fmt.Stringer.
func (t TelegramLogStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TelegramLogStatus.
func (t TelegramLogStatus) IsValid() bool {
	return t == TelegramLogStatusSuccess || t == TelegramLogStatusFailed
}
