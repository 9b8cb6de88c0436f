package backends

import (
	"fmt"
	"os"
)

// ParseMode converts a C-style open mode into os.OpenFile flags.
// The first character selects r, w or a. It may be followed by '+', by 'b' or 't'
// (ignored) and, for w, by 'x' for exclusive creation.
func ParseMode(mode string) (int, error) {
	if mode == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidMode)
	}

	var plus, exclusive bool
	for _, c := range mode[1:] {
		switch c {
		case '+':
			if plus {
				return 0, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
			}
			plus = true
		case 'b', 't':
		case 'x':
			if exclusive {
				return 0, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
			}
			exclusive = true
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
		}
	}

	var flag int
	switch mode[0] {
	case 'r':
		flag = os.O_RDONLY
		if plus {
			flag = os.O_RDWR
		}
	case 'w':
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if plus {
			flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
		}
	case 'a':
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		if plus {
			flag = os.O_RDWR | os.O_CREATE | os.O_APPEND
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	if exclusive {
		if mode[0] != 'w' {
			return 0, fmt.Errorf("%w: %q: x requires w", ErrInvalidMode, mode)
		}
		flag |= os.O_EXCL
	}

	return flag, nil
}
