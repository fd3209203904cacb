package quill

// bootScript mounts Quill on every rendered quill field. Each text change is
// written straight into the hidden input bound to the field name; a
// "quill:sync" event on the input pushes an externally reset value back into
// the editor.
const bootScript = `(function () {
  var ROOT = '[data-quill-root="true"]';
  var INIT_ATTR = "data-quill-init";

  function readConfig(host) {
    try {
      return JSON.parse(host.getAttribute("data-quill-config") || "{}");
    } catch (e) {
      return {};
    }
  }

  function mount(root) {
    if (root.getAttribute(INIT_ATTR) === "true") {
      return;
    }
    var host = root.querySelector("[data-quill-editor]");
    var input = root.querySelector("[data-quill-input]");
    if (!host || !input) {
      return;
    }
    root.setAttribute(INIT_ATTR, "true");

    var config = readConfig(host);
    var editor = new window.Quill(host, config);
    if (config.readOnly) {
      editor.enable(false);
    }

    editor.on("text-change", function () {
      input.value = editor.root.innerHTML;
      input.dispatchEvent(new Event("input", { bubbles: true }));
    });

    input.addEventListener("quill:sync", function () {
      if (editor.root.innerHTML === input.value) {
        return;
      }
      editor.clipboard.dangerouslyPasteHTML(input.value || "", "silent");
    });
  }

  function boot() {
    if (typeof window.Quill === "undefined") {
      return;
    }
    document.querySelectorAll(ROOT).forEach(mount);
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", boot);
  } else {
    boot();
  }
})();`
