package keel

import "reflect"

// buildUp sets the exported, settable, currently-zero fields of an existing
// instance whose types have matching registrations. Struct-pointer instances
// only; anything else is a no-op. Fields already holding a value are left
// alone.
func (c *Container) buildUp(instance any) error {
	if instance == nil {
		return nil
	}

	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() || !field.IsZero() {
			continue
		}

		reg := c.registrationFor(field.Type())
		if reg == nil {
			continue
		}

		dep, err := reg.resolve(c.hooks)
		if err != nil {
			return err
		}

		depValue := reflect.ValueOf(dep)
		if depValue.Type().AssignableTo(field.Type()) {
			field.Set(depValue)
		}
	}

	return nil
}

// registrationFor finds the registration serving a field type: an exact
// by-type registration first, else the first registration (in registration
// order) whose service type satisfies an interface field.
func (c *Container) registrationFor(fieldType reflect.Type) *registration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if reg, ok := c.services[serviceKey{typ: fieldType}]; ok {
		return reg
	}

	if fieldType.Kind() != reflect.Interface {
		return nil
	}

	for _, sk := range c.order {
		reg := c.services[sk]
		if reg.service != nil && reg.service.Implements(fieldType) {
			return reg
		}
	}

	return nil
}
