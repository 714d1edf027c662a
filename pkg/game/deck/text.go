package deck

import (
	_ "embed"

	"github.com/leonelquinteros/gotext"
)

//go:embed locales/en_GB/default.po
var poData []byte

var catalogue = newCatalogue()

// lookup is called through a variable so keys may be built at runtime.
var lookup = catalogue.Get

func newCatalogue() *gotext.Po {
	po := gotext.NewPo()
	po.Parse(poData)
	return po
}

// Text returns the translated message for key, formatted with vars. Unknown
// keys come back unchanged, as gettext does.
func Text(key string, vars ...any) string {
	return lookup(key, vars...)
}
