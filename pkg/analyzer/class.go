package analyzer

// Class describes the receiver class a method is analyzed against: its name,
// its declared instance variables, and its superclass chain. The analyzer only
// reads classes, so one descriptor is safely shared across concurrent passes.
type Class struct {
	Name              string
	InstanceVariables []string
	Superclass        *Class
}

// AllInstanceVariables lists every slot a receiver of this class carries,
// inherited variables first, each chain level in declaration order.
func (c *Class) AllInstanceVariables() []string {
	if c == nil {
		return nil
	}
	vars := c.Superclass.AllInstanceVariables()
	return append(vars, c.InstanceVariables...)
}

// DisplayName is the class name, empty for a nil (classless) descriptor.
func (c *Class) DisplayName() string {
	if c == nil {
		return ""
	}
	return c.Name
}
