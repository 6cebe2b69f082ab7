package settings

// Numeric holds the NUMERIC DIGITS/FUZZ/FORM triple.
type Numeric struct {
	Digits         int
	Fuzz           int
	FormScientific bool
}

// DefaultNumeric matches the oorexx defaults: DIGITS 9, FUZZ 0, FORM
// SCIENTIFIC.
func DefaultNumeric() Numeric {
	return Numeric{Digits: 9, Fuzz: 0, FormScientific: true}
}

// Settings is the inlined record of user-visible scope state an
// Activation carries and copies across INTERPRET boundaries and
// INTERNAL_CALL traps, per the component design's Settings record.
type Settings struct {
	Numeric Numeric

	TraceOption     TraceOption
	TraceFlags      Flags
	TraceIndent     int
	TraceSkipCount  int
	IntermediateTrace bool

	CurrentAddress   string
	AlternateAddress string

	MessageName string
	CallType    string

	SecurityManager string

	Flags Flags
}

// Inherit copies s into a new Settings value suitable for a freshly
// constructed child activation (INTERNAL_CALL, INTERPRET, METHOD_CALL):
// numeric and trace state carry forward; trap-related and reply-related
// flag bits do not.
func (s Settings) Inherit() Settings {
	child := s
	child.Flags = s.Flags.Clear(TrapsCopied).Clear(ReplyIssued).Clear(ReturnStatusSet).Clear(TransferFailed)
	if s.Flags.Has(SingleStep) && !s.Flags.Has(SingleStepNested) {
		child.Flags = child.Flags.Clear(DebugOn).Clear(SingleStep)
	}
	return child
}

// PackageDefaults is the package-level source of truth for a freshly
// constructed top-level Activation's Settings, loaded from YAML
// configuration the same way the conformance package loads a YAML test
// suite: os.ReadFile + yaml.Unmarshal into a tagged struct.
type PackageDefaults struct {
	NumericDigits   int    `yaml:"numeric_digits"`
	NumericFuzz     int    `yaml:"numeric_fuzz"`
	NumericForm     string `yaml:"numeric_form"` // "scientific" | "engineering"
	Trace           string `yaml:"trace"`
	TickLimit       int64  `yaml:"tick_limit"`
	SecondsLimit    int64  `yaml:"seconds_limit"`
	SecurityManager string `yaml:"security_manager"`
}

// DefaultPackageDefaults returns the zero-config defaults a program gets
// when no YAML file is supplied.
func DefaultPackageDefaults() PackageDefaults {
	return PackageDefaults{
		NumericDigits: 9,
		NumericFuzz:   0,
		NumericForm:   "scientific",
		Trace:         "NORMAL",
		TickLimit:     1_000_000,
		SecondsLimit:  0,
	}
}

// ToSettings builds the initial Settings record a top-level Activation
// should start from.
func (p PackageDefaults) ToSettings() Settings {
	option, _, _, ok := ParseTraceSetting(p.Trace)
	if !ok {
		option = TraceNormal
	}
	return Settings{
		Numeric: Numeric{
			Digits:         p.NumericDigits,
			Fuzz:           p.NumericFuzz,
			FormScientific: p.NumericForm != "engineering",
		},
		TraceOption:     option,
		SecurityManager: p.SecurityManager,
	}
}
