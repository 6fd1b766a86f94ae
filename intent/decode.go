package intent

import (
	"encoding/json"
	"fmt"
	"slices"
)

// pathOrPaths decodes the "path_or_paths" positional field, which the wire
// format allows to be either a single path ([]string) or a list of paths
// ([][]string) — simple's single-path contract is conventionally sent as a
// one-element list, but a bare path is also accepted.
type pathOrPaths [][]string

func (p *pathOrPaths) UnmarshalJSON(data []byte) error {
	var single []string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = pathOrPaths{single}
		return nil
	}
	var multi [][]string
	if err := json.Unmarshal(data, &multi); err != nil {
		return fmt.Errorf("%w: path_or_paths field is neither []string nor [][]string: %w", ErrMalformed, err)
	}
	*p = pathOrPaths(multi)
	return nil
}

// intentRecord is the on-wire positional-tuple shape:
// (protocol, kind, src, dst, path_or_paths, [secondary_path]).
type intentRecord struct {
	Protocol      string
	Kind          string
	Src           string
	Dst           string
	Paths         pathOrPaths
	SecondaryPath []string // present only for path_preference
}

func (r *intentRecord) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: intent record is not a JSON array: %w", ErrMalformed, err)
	}
	if len(raw) < 5 {
		return fmt.Errorf("%w: intent record has %d fields, want at least 5", ErrMalformed, len(raw))
	}
	fields := []*string{&r.Protocol, &r.Kind, &r.Src, &r.Dst}
	for i, f := range fields {
		if err := json.Unmarshal(raw[i], f); err != nil {
			return fmt.Errorf("%w: intent record field %d: %w", ErrMalformed, i, err)
		}
	}
	if err := json.Unmarshal(raw[4], &r.Paths); err != nil {
		return err
	}
	if len(raw) >= 6 {
		if err := json.Unmarshal(raw[5], &r.SecondaryPath); err != nil {
			return fmt.Errorf("%w: intent record field 5 (secondary_path): %w", ErrMalformed, err)
		}
	}
	return nil
}

// intentsFileDTO is the top-level shape of an intents file: a keyed
// collection of records, keyed by stable string ID.
type intentsFileDTO map[string]intentRecord

type routerDTO struct {
	Name string `json:"name"`
}

type nodeRefDTO struct {
	Name string `json:"name"`
}

type linkDTO struct {
	Node1 nodeRefDTO `json:"node1"`
	Node2 nodeRefDTO `json:"node2"`
}

type topologyFileDTO struct {
	Routers []routerDTO `json:"routers"`
	Links   []linkDTO   `json:"links"`
}

// DecodeIntents parses an intents file into a slice of [Intent] ready for
// [NewSet], resolving each record's kind and reshaping its declared paths
// per [Kind]'s contract. The intents are returned sorted by the file's
// keys, so that [NewSet] assigns byte-identical indices on every run over
// byte-identical input (map iteration order is not stable, so the raw
// decode order can't be used directly).
func DecodeIntents(data []byte) ([]Intent, error) {
	var dto intentsFileDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	ids := make([]string, 0, len(dto))
	for id := range dto {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Intent, 0, len(ids))
	for _, id := range ids {
		rec := dto[id]
		kind, err := parseKind(rec.Kind)
		if err != nil {
			return nil, fmt.Errorf("intent %q: %w", id, err)
		}
		paths, err := assemblePaths(kind, rec)
		if err != nil {
			return nil, fmt.Errorf("intent %q: %w", id, err)
		}
		out = append(out, Intent{
			ID:    id,
			Kind:  kind,
			Src:   rec.Src,
			Dst:   rec.Dst,
			Paths: paths,
		})
	}
	return out, nil
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "simple":
		return KindSimple, nil
	case "path_preference":
		return KindPathPreference, nil
	case "ECMP":
		return KindECMP, nil
	default:
		return 0, fmt.Errorf("%w: unknown intent kind %q", ErrMalformed, s)
	}
}

func assemblePaths(kind Kind, rec intentRecord) ([][]string, error) {
	switch kind {
	case KindSimple:
		if len(rec.Paths) != 1 {
			return nil, fmt.Errorf("%w: simple intent must declare exactly one path, got %d", ErrMalformed, len(rec.Paths))
		}
		return [][]string{rec.Paths[0]}, nil
	case KindPathPreference:
		primary := rec.Paths
		if len(primary) == 0 {
			return nil, fmt.Errorf("%w: path_preference intent has no primary path", ErrMalformed)
		}
		if len(rec.SecondaryPath) == 0 {
			if len(primary) < 2 {
				return nil, fmt.Errorf("%w: path_preference intent needs a primary and secondary path", ErrMalformed)
			}
			return [][]string{primary[0], primary[1]}, nil
		}
		return [][]string{primary[0], rec.SecondaryPath}, nil
	case KindECMP:
		if len(rec.Paths) < 2 {
			return nil, fmt.Errorf("%w: ECMP intent needs at least two tied paths, got %d", ErrMalformed, len(rec.Paths))
		}
		return [][]string(rec.Paths), nil
	default:
		return nil, fmt.Errorf("%w: unhandled kind %v", ErrMalformed, kind)
	}
}

// DecodeTopology parses a topology file into the [Topology] shape used by
// package topology, one undirected [Link] per file link; package topology
// expands each link into its two directed edges.
func DecodeTopology(data []byte) (Topology, error) {
	var dto topologyFileDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return Topology{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	routers := make([]string, len(dto.Routers))
	for i, r := range dto.Routers {
		routers[i] = r.Name
	}
	links := make([]Link, len(dto.Links))
	for i, l := range dto.Links {
		links[i] = Link{Node1: l.Node1.Name, Node2: l.Node2.Name}
	}
	return Topology{Routers: routers, Links: links}, nil
}
