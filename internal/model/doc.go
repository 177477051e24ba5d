// Package model defines the shared data model for the prioritization toolkit.
//
// The model is identity-centric: a TestCase or ClassUnderTest is created
// once by its registry and every later lookup with an equal canonical name
// returns the same pointer. Algorithms compare identities, never names.
//
// Canonical names are NFC-normalized before registry lookup so that
// byte-different but canonically-equal identifiers resolve to one identity.
// The coverage engine is an external collaborator; this package only
// defines the CoverageIndex boundary it is consumed through, plus a static
// in-memory implementation that can be populated from a coverage dump.
package model
