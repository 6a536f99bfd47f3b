package core

import "baukatalog/pkg/katalog"

type (
	EntityType     = katalog.EntityType
	Object         = katalog.Object
	PositionNumber = katalog.PositionNumber
	Record         = katalog.Record
	RecordQuery    = katalog.RecordQuery
	Store          = katalog.Store
)

const (
	EntityUnknown            = katalog.EntityUnknown
	EntityLG                 = katalog.EntityLG
	EntityULG                = katalog.EntityULG
	EntityGrundtext          = katalog.EntityGrundtext
	EntityUngeteiltePosition = katalog.EntityUngeteiltePosition
	EntityFolgeposition      = katalog.EntityFolgeposition
)
