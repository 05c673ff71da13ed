package shared

// FlashType selects the color of a flash banner.
type FlashType string

const (
	FlashSuccess FlashType = "success"
	FlashError   FlashType = "error"
	FlashWarning FlashType = "warning"
	FlashInfo    FlashType = "info"
)

// Flash is a one-shot message shown at the top of a page.
type Flash struct {
	Type    FlashType
	Message string
}

func (f FlashType) classes() string {
	switch f {
	case FlashSuccess:
		return "bg-emerald-50 text-emerald-800 border-emerald-200"
	case FlashError:
		return "bg-red-50 text-red-800 border-red-200"
	case FlashWarning:
		return "bg-amber-50 text-amber-800 border-amber-200"
	default:
		return "bg-sky-50 text-sky-800 border-sky-200"
	}
}
