// Package models contains GORM persistence models that map to domain
// entities. Domain aggregates without gorm tags are stored through a
// model struct here; conversion goes through ToDomain/FromDomain.
package models
