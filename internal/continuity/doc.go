// Package continuity decides whether vocabulary from a learner's previously
// shared lesson should be reused in the next one.
//
// The Tracker reads recent lesson history through store.LessonReader. Lookup
// failures never reach the caller: they degrade to an empty Context so lesson
// generation proceeds without continuity. CachedTracker memoizes results per
// learner and must be invalidated whenever a lesson is saved or shared.
package continuity
