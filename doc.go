// Package quillfield is the plugin facade for the quill rich-text field. It
// follows the host's plugin-loading contract: Register declares the custom
// field and the plugin record with the admin, RegisterTrads loads the bundled
// translations, Bootstrap runs the plugin initializer and RegisterServer
// declares the field to the server schema layer.
//
// Typical wiring:
//
//	plugin := quillfield.New(quillfield.WithEditorOptions(quill.WithCustomColors("red", "blue")))
//	admin := quillfield.NewAdmin()
//	if err := plugin.Register(admin); err != nil {
//		return err
//	}
//	if err := plugin.RegisterServer(admin.Fields); err != nil {
//		return err
//	}
//	if err := plugin.Bootstrap(ctx); err != nil {
//		return err
//	}
package quillfield
