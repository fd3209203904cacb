// Package customfields implements the host side of custom field registration.
//
// A custom field is declared twice: the server declares its name, owning
// plugin and primitive storage type so content types may reference it, and
// the admin registers the label, description, icon and input component used
// to edit it. Plugin records track which plugins have run their initializer.
package customfields
