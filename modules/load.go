package modules

import (
	"github.com/hseworks/picatrack/modules/core"
	"github.com/hseworks/picatrack/modules/pica"
	"github.com/hseworks/picatrack/pkg/application"
)

var BuiltInModules = []application.Module{
	core.NewModule(),
	pica.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
