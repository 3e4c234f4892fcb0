package compiler

import (
	"go.uber.org/zap"

	"github.com/sapodata/odatagen/internal/compiler/errors"
	"github.com/sapodata/odatagen/pkg/edmx"
)

// Validate checks the references generation relies on: entity keys and
// referential constraints must name declared properties, and association
// ends must name entity types of the schema. Problems are warnings; the
// emitter skips whatever they point at.
func Validate(s *edmx.Schema, logger *zap.Logger) errors.ErrorList {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &validator{schema: s, logger: logger}
	for i := range s.EntityTypes {
		v.entityKey(&s.EntityTypes[i])
	}
	for i := range s.Associations {
		v.association(&s.Associations[i])
	}
	return v.diags
}

type validator struct {
	schema *edmx.Schema
	logger *zap.Logger
	diags  errors.ErrorList
}

func (v *validator) entityKey(et *edmx.EntityType) {
	owner := v.schema.Namespace + "." + et.Name
	for _, ref := range et.Key.PropertyRefs {
		if _, ok := et.Property(ref.Name); !ok {
			v.add(errors.NewDanglingPropertyRef(errors.At(owner, "Key", ref.Name), ref.Name, owner))
		}
	}
}

func (v *validator) association(a *edmx.Association) {
	owner := v.schema.Namespace + "." + a.Name
	ends := make(map[string]*edmx.EntityType, len(a.Ends))
	for _, end := range a.Ends {
		et, ok := v.endType(end.Type)
		if !ok {
			v.add(errors.NewUnknownEndType(errors.At(owner, end.Role), end.Type))
			continue
		}
		ends[end.Role] = et
	}

	rc := a.ReferentialConstraint
	if rc == nil {
		return
	}
	for _, side := range []edmx.RoleRef{rc.Principal, rc.Dependent} {
		et, ok := ends[side.Role]
		if !ok {
			continue
		}
		for _, ref := range side.PropertyRefs {
			if _, found := et.Property(ref.Name); !found {
				v.add(errors.NewDanglingPropertyRef(
					errors.At(owner, side.Role, ref.Name),
					ref.Name,
					v.schema.Namespace+"."+et.Name,
				))
			}
		}
	}
}

// endType finds the entity type an association end names. Only types of
// this schema can be checked.
func (v *validator) endType(name string) (*edmx.EntityType, bool) {
	local := v.schema.Unqualify(name)
	if local == name {
		return nil, false
	}
	return v.schema.EntityType(local)
}

func (v *validator) add(diag *errors.CompilerError) {
	v.diags = append(v.diags, diag)
	v.logger.Warn(diag.Message,
		zap.String("code", string(diag.Code)),
		zap.String("element", diag.Location.Element),
	)
}
