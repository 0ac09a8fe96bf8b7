package registry

import "fmt"

// key ของ service ที่โมดูล export ให้โมดูลอื่นใช้งาน
type ServiceKey string

type ServiceRegistry interface {
	Register(key ServiceKey, svc any)
	Resolve(key ServiceKey) (any, error)
}

type serviceRegistry struct {
	services map[ServiceKey]any
}

func NewServiceRegistry() ServiceRegistry {
	return &serviceRegistry{
		services: make(map[ServiceKey]any),
	}
}

func (r *serviceRegistry) Register(key ServiceKey, svc any) {
	r.services[key] = svc
}

func (r *serviceRegistry) Resolve(key ServiceKey) (any, error) {
	svc, ok := r.services[key]
	if !ok {
		return nil, fmt.Errorf("service not found: %s", key)
	}
	return svc, nil
}

// ResolveAs resolves a service and asserts its type.
func ResolveAs[T any](r ServiceRegistry, key ServiceKey) (T, error) {
	var empty T
	svc, err := r.Resolve(key)
	if err != nil {
		return empty, err
	}
	typed, ok := svc.(T)
	if !ok {
		return empty, fmt.Errorf("service registered under %s has unexpected type %T", key, svc)
	}
	return typed, nil
}
