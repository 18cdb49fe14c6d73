package pipeline

// Preparer derives the final wire parameters for a command.
type Preparer interface {
	Prepare(command string, data map[string]any) (map[string]any, error)
}

// ClientInfo is merged into every outgoing request so the backend can
// attribute traffic.
type ClientInfo struct {
	AppVersion string
	Platform   string
}

// DefaultPreparer copies request data, strips pipeline control flags and
// adds client metadata.
type DefaultPreparer struct {
	client ClientInfo
}

// NewPreparer creates the default parameter preparer.
func NewPreparer(client ClientInfo) *DefaultPreparer {
	return &DefaultPreparer{client: client}
}

// Prepare builds the final parameter map. The "persist" flag is consumed by
// the pipeline and never sent over the wire.
func (p *DefaultPreparer) Prepare(command string, data map[string]any) (map[string]any, error) {
	params := make(map[string]any, len(data)+2)
	for k, v := range data {
		if k == "persist" {
			continue
		}
		params[k] = v
	}
	if p.client.AppVersion != "" {
		params["appversion"] = p.client.AppVersion
	}
	if p.client.Platform != "" {
		params["platform"] = p.client.Platform
	}
	return params, nil
}
