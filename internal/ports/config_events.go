package ports

import "skyutilities-dashboard/internal/domain"

// ConfigEventPublisher fans out configuration changes to in-process listeners
type ConfigEventPublisher interface {
	Publish(event *domain.ConfigChangeEvent)
}
