// Package play runs the game session engine.
//
// SessionManager owns the session lifecycle, ChoiceResolver applies a chosen
// option, CharacterState owns stat changes and death, and GameFlow turns
// "enter the game at a location" into a start or a resume. Every mutation of a
// character's session slot runs under that character's KeyedLocker entry and
// inside one storage transaction, so character and session rows always change
// together. Analytics are handed to a Recorder only after the transaction
// commits.
package play
