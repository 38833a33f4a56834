// Package store defines interfaces for lesson persistence. The generation
// pipeline only reads lesson history through the narrow LessonReader
// interface; the HTTP layer writes through LessonStore. Implementations live
// under internal/platform.
package store
