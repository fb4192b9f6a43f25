package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("GEV_TEST_MODE") == "" {
			_ = os.Setenv("GEV_TEST_MODE", "1")
		}
	})
}
