package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownServiceType = errors.New("unknown service type")

// ServiceType identifies the kind of media provider a movie universe comes from.
type ServiceType int

const (
	ServiceTMDB ServiceType = iota + 1
	ServicePlex
	ServiceJellyfin
	ServiceEmby
	ServiceRadarr
)

func (t ServiceType) String() string {
	switch t {
	case ServiceTMDB:
		return "tmdb"
	case ServicePlex:
		return "plex"
	case ServiceJellyfin:
		return "jellyfin"
	case ServiceEmby:
		return "emby"
	case ServiceRadarr:
		return "radarr"
	}
	return fmt.Sprintf("ServiceType(%d)", int(t))
}

func ParseServiceType(s string) (ServiceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tmdb":
		return ServiceTMDB, nil
	case "plex":
		return ServicePlex, nil
	case "jellyfin":
		return ServiceJellyfin, nil
	case "emby":
		return ServiceEmby, nil
	case "radarr":
		return ServiceRadarr, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownServiceType, s)
}

// Scope is a (provider kind, server id) pair. Comparable with ==.
type Scope struct {
	Kind     ServiceType
	ServerID string
}

func (s Scope) String() string {
	return s.Kind.String() + ":" + s.ServerID
}
