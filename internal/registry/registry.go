package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Registry resolves (creator, model, provider) triples into invocation
// descriptors and answers reverse lookups from wire model ids. The backing
// tables are loaded once and never mutated, so all methods are safe for
// concurrent use.
type Registry struct {
	catalog   Catalog
	providers map[Provider]ProviderConfig

	// sorted key lists keep scan results deterministic
	creatorOrder []Creator
	modelOrder   map[Creator][]string
}

// New builds a Registry, rejecting catalogs that bind the same
// (provider, wire model id) pair to more than one model. Reverse lookups
// would otherwise be silently ambiguous.
func New(catalog Catalog, providers map[Provider]ProviderConfig) (*Registry, error) {
	seen := make(map[string]string)
	for creator, models := range catalog {
		for model, mc := range models {
			if len(mc.Providers) == 0 {
				return nil, fmt.Errorf("model %s/%s has no provider mappings", creator, model)
			}
			for _, pm := range mc.Providers {
				if _, ok := providers[pm.Provider]; !ok {
					return nil, fmt.Errorf("model %s/%s references unknown provider %s", creator, model, pm.Provider)
				}
				key := string(pm.Provider) + "\x00" + pm.WireModelID
				if prev, dup := seen[key]; dup {
					return nil, fmt.Errorf("duplicate mapping (%s, %s): claimed by %s and %s/%s",
						pm.Provider, pm.WireModelID, prev, creator, model)
				}
				seen[key] = fmt.Sprintf("%s/%s", creator, model)
			}
		}
	}

	r := &Registry{
		catalog:    catalog,
		providers:  providers,
		modelOrder: make(map[Creator][]string, len(catalog)),
	}
	for creator, models := range catalog {
		r.creatorOrder = append(r.creatorOrder, creator)
		names := make([]string, 0, len(models))
		for name := range models {
			names = append(names, name)
		}
		sort.Strings(names)
		r.modelOrder[creator] = names
	}
	sort.Slice(r.creatorOrder, func(i, j int) bool { return r.creatorOrder[i] < r.creatorOrder[j] })

	return r, nil
}

// Resolve builds a complete invocation descriptor for the given triple.
// Returns nil when the creator, model, or provider mapping is absent; the
// caller decides whether that is an error.
func (r *Registry) Resolve(creator Creator, model string, provider Provider, subs Substitutions) *InvocationDescriptor {
	mc, ok := r.catalog[creator][model]
	if !ok {
		return nil
	}

	var mapping *ProviderModelMapping
	for i := range mc.Providers {
		if mc.Providers[i].Provider == provider {
			mapping = &mc.Providers[i]
			break
		}
	}
	if mapping == nil {
		return nil
	}

	pc, ok := r.providers[provider]
	if !ok {
		return nil
	}

	// Mapping overrides win over model defaults on key collision
	params := make(Parameters, len(mc.DefaultParameters)+len(mapping.Parameters))
	for k, v := range mc.DefaultParameters {
		params[k] = v
	}
	for k, v := range mapping.Parameters {
		params[k] = v
	}

	endpoint := pc.DefaultEndpoint
	if v, ok := params["endpoint"].(string); ok && v != "" {
		endpoint = v
	}
	mapper := pc.DefaultMapper
	if v, ok := params["mapper"].(string); ok && v != "" {
		mapper = v
	}

	return &InvocationDescriptor{
		Provider:         provider,
		WireModelID:      mapping.WireModelID,
		Endpoint:         substituteTokens(endpoint, mapping.WireModelID, subs),
		Mapper:           mapper,
		BaseURL:          substituteTokens(pc.BaseURL, mapping.WireModelID, subs),
		AuthHeaderConfig: pc.AuthHeaderConfig,
		DefaultHeaders:   pc.DefaultHeaders,
	}
}

// ReverseByProviderAndWireID recovers the creator and model behind a
// provider's wire model id. Uniqueness is enforced at load time, so a hit
// is never ambiguous.
func (r *Registry) ReverseByProviderAndWireID(provider Provider, wireModelID string) (Creator, string, bool) {
	for _, creator := range r.creatorOrder {
		for _, model := range r.modelOrder[creator] {
			for _, pm := range r.catalog[creator][model].Providers {
				if pm.Provider == provider && pm.WireModelID == wireModelID {
					return creator, model, true
				}
			}
		}
	}
	return "", "", false
}

// ReverseByWireID recovers the creator, model, and provider behind a wire
// model id, scanning all providers.
func (r *Registry) ReverseByWireID(wireModelID string) (Creator, string, Provider, bool) {
	for _, creator := range r.creatorOrder {
		for _, model := range r.modelOrder[creator] {
			for _, pm := range r.catalog[creator][model].Providers {
				if pm.WireModelID == wireModelID {
					return creator, model, pm.Provider, true
				}
			}
		}
	}
	return "", "", "", false
}

// ModelsForProvider lists every model reachable through the given provider.
func (r *Registry) ModelsForProvider(provider Provider) []ProviderModel {
	var result []ProviderModel
	for _, creator := range r.creatorOrder {
		for _, model := range r.modelOrder[creator] {
			for _, pm := range r.catalog[creator][model].Providers {
				if pm.Provider == provider {
					result = append(result, ProviderModel{Creator: creator, Model: model, WireModelID: pm.WireModelID})
					break
				}
			}
		}
	}
	return result
}

// ModelsForCreator lists the model names registered under a creator.
func (r *Registry) ModelsForCreator(creator Creator) []string {
	return append([]string(nil), r.modelOrder[creator]...)
}

// ProvidersForModel lists the providers that implement a model.
func (r *Registry) ProvidersForModel(creator Creator, model string) []Provider {
	mc, ok := r.catalog[creator][model]
	if !ok {
		return nil
	}
	providers := make([]Provider, 0, len(mc.Providers))
	for _, pm := range mc.Providers {
		providers = append(providers, pm.Provider)
	}
	return providers
}

// WireModelID returns the wire id a provider expects for a model, or "" when
// the mapping is absent.
func (r *Registry) WireModelID(creator Creator, model string, provider Provider) string {
	mc, ok := r.catalog[creator][model]
	if !ok {
		return ""
	}
	for _, pm := range mc.Providers {
		if pm.Provider == provider {
			return pm.WireModelID
		}
	}
	return ""
}

// ProviderConfig returns the static descriptor for a provider.
func (r *Registry) ProviderConfig(provider Provider) (ProviderConfig, bool) {
	pc, ok := r.providers[provider]
	return pc, ok
}

func substituteTokens(template, wireModelID string, subs Substitutions) string {
	out := strings.ReplaceAll(template, "{model}", wireModelID)
	for token, value := range subs {
		out = strings.ReplaceAll(out, "{"+token+"}", value)
	}
	return out
}
